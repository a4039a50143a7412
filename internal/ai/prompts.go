package ai

import "math/rand/v2"

// ImagePrompts is the fixed pool the illustration prompt is drawn from.
var ImagePrompts = []string{
	"futuristic technology concept art, bright colors, digital art style",
	"artificial intelligence visualization, modern, minimalist",
	"innovative tech gadgets of the future, creative digital art",
	"cybersecurity concept art, digital landscape",
	"robotics and automation, futuristic scene",
}

// PickPrompt returns one prompt chosen uniformly at random.
func PickPrompt(rng *rand.Rand) string {
	return ImagePrompts[rng.IntN(len(ImagePrompts))]
}
