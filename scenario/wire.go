package scenario

import "google.golang.org/genai"

// item is a scenario as the model returns it. Pointers tell missing fields
// apart from empty ones.
type item struct {
	OpponentName     *string  `json:"opponentName"`
	SituationContext *string  `json:"situationContext"`
	NPCDialogue      *string  `json:"npcDialogue"`
	Options          []Option `json:"options"`
}

func str() *genai.Schema     { return &genai.Schema{Type: genai.TypeString} }
func boolean() *genai.Schema { return &genai.Schema{Type: genai.TypeBoolean} }
func integer() *genai.Schema { return &genai.Schema{Type: genai.TypeInteger} }

var responseSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"opponentName":     str(),
			"situationContext": str(),
			"npcDialogue":      str(),
			"options": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"text":          str(),
						"strategy":      str(),
						"isOptimal":     boolean(),
						"npcReaction":   str(),
						"tensionChange": integer(),
						"trustChange":   integer(),
						"explanation":   str(),
					},
					Required: []string{"text", "strategy", "isOptimal", "npcReaction", "tensionChange", "trustChange", "explanation"},
				},
			},
		},
		Required: []string{"opponentName", "situationContext", "npcDialogue", "options"},
	},
}
