package assets

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 7 {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestClassify(t *testing.T) {
	cases := map[string]ResourceType{
		"image/png":       ResourceImage,
		"video/mp4":       ResourceVideo,
		"application/pdf": ResourceRaw,
		"":                ResourceRaw,
	}
	for mime, want := range cases {
		if got := Classify(mime); got != want {
			t.Errorf("Classify(%q) = %q, want %q", mime, got, want)
		}
	}
}

func TestPrepare_FitsLargeImage(t *testing.T) {
	up := Upload{Filename: "hero.png", Data: pngBytes(t, 2400, 1200)}
	p, err := Prepare(up, BlogFolder.WithFit(1200, 800))
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if p.Width > 1200 || p.Height > 800 {
		t.Errorf("image not fitted: %dx%d", p.Width, p.Height)
	}
	if p.Width != 1200 || p.Height != 600 {
		t.Errorf("aspect ratio not kept: %dx%d", p.Width, p.Height)
	}
	if p.MIME != "image/png" || p.ResourceType != ResourceImage {
		t.Errorf("got mime %q type %q", p.MIME, p.ResourceType)
	}
}

func TestPrepare_SmallImageUntouched(t *testing.T) {
	data := pngBytes(t, 300, 200)
	p, err := Prepare(Upload{Filename: "small.png", Data: data}, ImagesFolder.WithFit(1200, 800))
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if !bytes.Equal(p.Data, data) {
		t.Error("small image should keep its bytes")
	}
	if p.Width != 300 || p.Height != 200 {
		t.Errorf("dimensions = %dx%d", p.Width, p.Height)
	}
}

func TestPrepare_RejectsFormat(t *testing.T) {
	_, err := Prepare(Upload{Filename: "notes.txt", Data: []byte("hello")}, BlogFolder)
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError, got %v", err)
	}
	if fe.Format != "txt" {
		t.Errorf("format = %q", fe.Format)
	}
}

func TestPrepare_RejectsFakeImage(t *testing.T) {
	_, err := Prepare(Upload{Filename: "evil.png", Data: []byte("%PDF-1.4 not an image")}, ImagesFolder)
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError for non-image bytes, got %v", err)
	}
}

func TestPrepare_AutoResolvesPDF(t *testing.T) {
	p, err := Prepare(Upload{Filename: "marksheet.pdf", Data: []byte("%PDF-1.4\n%âãÏÓ\n")}, AdmissionsFolder)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if p.ResourceType != ResourceRaw || p.Format != "pdf" {
		t.Errorf("got type %q format %q", p.ResourceType, p.Format)
	}
}

func TestCheckFormat(t *testing.T) {
	if err := CheckFormat(Upload{Filename: "photo.png", Data: pngBytes(t, 4, 4)}, AdmissionsFolder); err != nil {
		t.Errorf("png should be allowed: %v", err)
	}
	var fe *FormatError
	if err := CheckFormat(Upload{Filename: "cv.docx", Data: []byte("PK\x03\x04")}, AdmissionsFolder); !errors.As(err, &fe) {
		t.Errorf("docx should be rejected, got %v", err)
	}
}

func TestCheckFormat_ContentMustMatchAllowedFormats(t *testing.T) {
	html := []byte("<html><body><script>alert(1)</script></body></html>")
	cases := []struct {
		name string
		up   Upload
		opts Options
	}{
		{"html named pdf", Upload{Filename: "marksheet.pdf", Data: html}, AdmissionsFolder},
		{"html named png", Upload{Filename: "photo.png", Data: html}, AdmissionsFolder},
		{"html named docx", Upload{Filename: "notes.docx", Data: html}, DocumentsFolder},
		{"zip named jpg", Upload{Filename: "photo.jpg", Data: []byte("PK\x03\x04")}, AdmissionsFolder},
		{"unrecognized bytes", Upload{Filename: "scan.pdf", Data: []byte{0x00, 0x01, 0x02, 0x03}}, AdmissionsFolder},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var fe *FormatError
			if err := CheckFormat(tc.up, tc.opts); !errors.As(err, &fe) {
				t.Errorf("expected FormatError, got %v", err)
			}
			if _, err := Prepare(tc.up, tc.opts); !errors.As(err, &fe) {
				t.Errorf("Prepare: expected FormatError, got %v", err)
			}
		})
	}
}

func TestPrepare_FormatFollowsContent(t *testing.T) {
	// A PNG uploaded under a .jpg name is stored as what it is.
	p, err := Prepare(Upload{Filename: "photo.jpg", Data: pngBytes(t, 4, 4)}, AdmissionsFolder)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if p.Format != "png" || p.MIME != "image/png" || p.ResourceType != ResourceImage {
		t.Errorf("got format %q mime %q type %q", p.Format, p.MIME, p.ResourceType)
	}

	// No extension at all still resolves from the bytes.
	p, err = Prepare(Upload{Filename: "marksheet", Data: []byte("%PDF-1.4\n%âãÏÓ\n")}, AdmissionsFolder)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if p.Format != "pdf" {
		t.Errorf("format = %q, want pdf", p.Format)
	}
}
