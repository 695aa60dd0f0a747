package handlers

import "net/http"

// PromptTemplate is one entry of the static prompt catalog shown by the
// embedded client. The {subject} placeholder is substituted client-side.
type PromptTemplate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Prompt      string `json:"prompt"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

var promptTemplates = []PromptTemplate{
	{
		ID:          "pixel-art",
		Name:        "像素艺术",
		Prompt:      "A pixel-art style image of {subject}, retro game aesthetic, vibrant colors",
		Category:    "art",
		Description: "复古游戏风格的像素艺术图像",
	},
	{
		ID:          "cyberpunk",
		Name:        "赛博朋克",
		Prompt:      "A cyberpunk style {subject}, neon lights, futuristic cityscape, night scene",
		Category:    "art",
		Description: "科幻未来风格的霓虹场景",
	},
	{
		ID:          "watercolor",
		Name:        "水彩画",
		Prompt:      "A watercolor painting of {subject}, soft colors, artistic brushstrokes",
		Category:    "art",
		Description: "柔和艺术风格的水彩画",
	},
	{
		ID:          "3d-render",
		Name:        "3D 渲染",
		Prompt:      "A 3D rendered {subject}, high quality, detailed textures, professional lighting",
		Category:    "tech",
		Description: "高质量三维渲染效果",
	},
	{
		ID:          "minimalist",
		Name:        "简笔画",
		Prompt:      "A minimalist line drawing of {subject}, simple and clean, black and white",
		Category:    "art",
		Description: "极简风格的黑白线条画",
	},
	{
		ID:          "oil-painting",
		Name:        "油画风格",
		Prompt:      "An oil painting of {subject}, classic art style, rich colors and textures",
		Category:    "art",
		Description: "古典艺术风格的油画",
	},
}

// Templates serves the static prompt catalog.
func (a *App) Templates(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"templates": promptTemplates})
}
