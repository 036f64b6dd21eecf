// Package qr renders otpauth provisioning URIs as QR codes, either inline as
// an SVG document or as a URL to an external chart renderer.
package qr

import (
	"fmt"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// chartBaseURL is the external renderer used for URL-style responses. The
// error-correction level is fixed at medium to match what authenticator
// onboarding flows conventionally use.
const (
	chartBaseURL    = "https://chart.googleapis.com/chart"
	errorCorrection = "M"
)

// SVG renders content as a standalone SVG document of the given pixel
// dimensions. One rect is emitted per dark module; the viewBox maps module
// coordinates to the requested size.
func SVG(content string, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid qr dimensions %dx%d", width, height)
	}

	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}

	bitmap := code.Bitmap()
	n := len(bitmap)

	var b strings.Builder
	fmt.Fprintf(&b,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`,
		width, height, n, n)
	b.WriteString(`<rect width="100%" height="100%" fill="#ffffff"/>`)
	for y, row := range bitmap {
		for x, dark := range row {
			if dark {
				fmt.Fprintf(&b, `<rect x="%d" y="%d" width="1" height="1" fill="#000000"/>`, x, y)
			}
		}
	}
	b.WriteString(`</svg>`)
	return b.String(), nil
}

// URL returns a link to the external chart renderer for content at the given
// pixel dimensions. Nothing is fetched; the caller hands the URL to a client
// that can reach the renderer.
func URL(content string, width, height int) string {
	return fmt.Sprintf("%s?chs=%dx%d&chld=%s|0&cht=qr&chl=%s",
		chartBaseURL, width, height, errorCorrection, url.QueryEscape(content))
}
