package generation

// StyleOption is a curated Chinese New Year art style the user can apply
// to a prompt.
type StyleOption struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	PromptModifier string `json:"-"`
}

// Styles are the curated generation presets.
var Styles = []StyleOption{
	{
		ID:             "traditional_papercut",
		Name:           "Paper Cut (剪纸)",
		Description:    "Traditional Chinese red paper cutting art style.",
		PromptModifier: "in the style of traditional Chinese red paper cutting art, intricate patterns, festive atmosphere, flat design, vector illustration, high contrast red and white",
	},
	{
		ID:             "ink_wash",
		Name:           "Ink Wash (水墨)",
		Description:    "Classic Chinese ink and wash painting.",
		PromptModifier: "traditional Chinese ink wash painting style, watercolor texture, artistic strokes, minimal colors with red accents, elegant, atmospheric, masterpiece",
	},
	{
		ID:             "3d_cute",
		Name:           "3D Cute (3D萌趣)",
		Description:    "Pixar-style cute 3D rendering.",
		PromptModifier: "3D render, cute style, Pixar animation style, soft lighting, vibrant colors, festive Chinese New Year theme, octane render, high detail, volumetric lighting",
	},
	{
		ID:             "cyberpunk_oriental",
		Name:           "Cyberpunk (赛博国潮)",
		Description:    "Futuristic neon aesthetics with traditional elements.",
		PromptModifier: "Cyberpunk style, neon lights, Chinese traditional elements mixed with futuristic technology, glowing red and gold, cinematic lighting, night city background, detailed",
	},
	{
		ID:             "realistic_festive",
		Name:           "Realistic (写实)",
		Description:    "High quality realistic photography.",
		PromptModifier: "highly realistic photography, cinematic shot, depth of field, 8k resolution, festive Chinese New Year atmosphere, warm lighting, sharp focus",
	},
}

// SuggestedPrompts seed the prompt input on the home page.
var SuggestedPrompts = []string{
	"A cute snake mascot holding a gold ingot",
	"A warm family dinner on New Year's Eve with dumplings",
	"Magnificent fireworks over the Great Wall",
	"A dragon dancing in a bustling ancient street",
	"Red lanterns glowing in the snow",
	"Detailed close-up of a red envelope with gold calligraphy",
}

// StyleByID returns the style preset for id, or nil when unknown.
func StyleByID(id string) *StyleOption {
	for i := range Styles {
		if Styles[i].ID == id {
			return &Styles[i]
		}
	}
	return nil
}

// BuildPrompt combines the user prompt with the chosen style's modifier.
// An unknown or empty style leaves the prompt untouched.
func BuildPrompt(prompt, styleID string) string {
	style := StyleByID(styleID)
	if style == nil {
		return prompt
	}
	return prompt + ". Transform this into " + style.Name + " style: " + style.PromptModifier
}
