package canvas

import "github.com/ComfyFluffy/rplace-2023/coord"

// TextureAspect is the canvas raster's fixed aspect ratio (3000/2000).
const TextureAspect = float32(coord.Width) / float32(coord.Height)

// FitQuad returns the half-extent scale factors for a full-screen
// textured quad so the canvas image is shown aspect-correct inside a
// window of aspect windowAspect, given the source texture's aspect
// ratio textureAspect. Exactly one axis keeps magnitude 1; the other
// shrinks to produce letterboxing (texture wider than window) or
// pillarboxing (texture narrower than window).
func FitQuad(windowAspect, textureAspect float32) (scaleX, scaleY float32) {
	if textureAspect > windowAspect {
		return 1, windowAspect / textureAspect
	}
	return textureAspect / windowAspect, 1
}

// QuadVertex is a single vertex of the two-triangle strip used to
// present the canvas: a clip-space position and a matching texture
// coordinate.
type QuadVertex struct {
	X, Y, U, V float32
}

// Quad builds the four vertices of a triangle-strip quad fit to the
// given aspect ratios, in the strip order top-left, top-right,
// bottom-left, bottom-right.
func Quad(windowAspect, textureAspect float32) [4]QuadVertex {
	sx, sy := FitQuad(windowAspect, textureAspect)
	return [4]QuadVertex{
		{-sx, sy, 0, 0},
		{sx, sy, 1, 0},
		{-sx, -sy, 0, 1},
		{sx, -sy, 1, 1},
	}
}
