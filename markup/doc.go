// Package markup synthesizes a static HTML page from UI element detections.
//
// Every prediction becomes one absolutely positioned element, placed with
// the raw box values in pixels:
//
//	html, err := markup.Synthesize([]markup.Prediction{
//		{Class: "checkbox", X: 1, Y: 2, Width: 10, Height: 20},
//	}, imageDataURI)
//
// produces, inside <body>:
//
//	<input type="checkbox" class="element" style="position: absolute; left: 1px; top: 2px; width: 10px; height: 20px;" />
//
// Classes outside DefaultMapping fail with ErrUnknownElementClass unless
// the synthesizer is built WithSkipUnknown(true).
package markup
