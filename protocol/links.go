/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package protocol

import (
	"cmp"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"net/url"
	"regexp"
	"slices"
	"strconv"
)

const channelPrefix = "ninja_room_"

var pinPattern = regexp.MustCompile(`^[0-9]{6}$`)

// NewPIN returns a random six digit room PIN.
func NewPIN() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		panic("crypto/rand failure: " + err.Error())
	}
	return strconv.FormatInt(100000+n.Int64(), 10)
}

// ValidPIN reports whether pin looks like one NewPIN would produce.
func ValidPIN(pin string) bool {
	return pinPattern.MatchString(pin)
}

// ChannelName maps a PIN to its relay channel.
func ChannelName(pin string) string {
	return channelPrefix + pin
}

// NewPlayerID returns a client-generated, room-unique player id.
func NewPlayerID() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}
	return "ninja-" + hex.EncodeToString(buf)
}

// NewAvatarID picks an avatar seed in [0, 1000).
func NewAvatarID() int {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return 0
	}
	return int(n.Int64())
}

// AvatarURL is the image for an avatar seed.
func AvatarURL(seed int) string {
	return fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%d", seed)
}

// QRURL is the relay-served QR code image encoding data.
func QRURL(prefix, data string) string {
	return prefix + "/qr?data=" + url.QueryEscape(data)
}

// Leaderboard returns up to n players ordered by score, highest first.
// Ties keep roster order. n <= 0 returns everyone.
func Leaderboard(players []Player, n int) []Player {
	out := slices.Clone(players)
	slices.SortStableFunc(out, func(a, b Player) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
