package assets

import (
	"bytes"
	"image"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

// Prepared is an upload after sniffing, format checks and image fitting. Both
// adapters store Prepared.Data rather than the raw upload.
type Prepared struct {
	Data         []byte
	MIME         string
	Format       string
	ResourceType ResourceType
	Width        int
	Height       int
}

// Prepare sniffs the upload's MIME type, enforces the allowed formats against
// the detected type, resolves ResourceAuto and fits raster images within the
// configured box.
func Prepare(up Upload, opts Options) (Prepared, error) {
	mime, format, rt, err := sniff(up, opts)
	if err != nil {
		return Prepared{}, err
	}

	p := Prepared{Data: up.Data, MIME: mime, Format: format, ResourceType: rt}
	if rt == ResourceImage {
		fitImage(&p, opts.MaxWidth, opts.MaxHeight)
	}
	return p, nil
}

// CheckFormat reports the *FormatError Prepare would return for up, without
// decoding or resizing anything. Handlers accepting several files call it on
// each before storing any of them.
func CheckFormat(up Upload, opts Options) error {
	_, _, _, err := sniff(up, opts)
	return err
}

func sniff(up Upload, opts Options) (mime, format string, rt ResourceType, err error) {
	mt := mimetype.Detect(up.Data)
	mime, _, _ = strings.Cut(mt.String(), ";")

	// The stored format follows the content, never the client's filename.
	format = strings.TrimPrefix(mt.Extension(), ".")
	if len(opts.AllowedFormats) > 0 && (format == "" || !slices.Contains(opts.AllowedFormats, format)) {
		return "", "", "", &FormatError{Format: rejectedFormat(format, up.Filename)}
	}

	rt = opts.ResourceType
	if rt == "" || rt == ResourceAuto {
		rt = Classify(mime)
	}
	// Declared images must actually be images.
	if rt == ResourceImage && !strings.HasPrefix(mime, "image/") {
		return "", "", "", &FormatError{Format: rejectedFormat(format, up.Filename)}
	}
	return mime, format, rt, nil
}

// rejectedFormat names a refused upload by its detected format, falling back
// to the filename extension when the content was not recognized.
func rejectedFormat(detected, filename string) string {
	if detected != "" {
		return detected
	}
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// fitImage shrinks p to fit w×h when it is a decodable raster format and
// records its final dimensions. Formats imaging cannot encode (webp) keep
// their bytes and report whatever dimensions can be read.
func fitImage(p *Prepared, w, h int) {
	imgFmt, err := imaging.FormatFromExtension(p.Format)
	if err != nil {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(p.Data)); err == nil {
			p.Width, p.Height = cfg.Width, cfg.Height
		}
		return
	}

	img, err := imaging.Decode(bytes.NewReader(p.Data), imaging.AutoOrientation(true))
	if err != nil {
		return
	}
	b := img.Bounds()
	if w > 0 && h > 0 && (b.Dx() > w || b.Dy() > h) {
		fitted := imaging.Fit(img, w, h, imaging.Lanczos)
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, fitted, imgFmt); err == nil {
			p.Data = buf.Bytes()
			b = fitted.Bounds()
		}
	}
	p.Width, p.Height = b.Dx(), b.Dy()
}
