package postline

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

const (
	maxMediaWidth  = 800
	jpegQuality    = 80
	maxUploadSize  = 10 << 20
	uploadsSubdir  = "uploads"
	maxNameRetries = 100
)

// processMedia decodes an uploaded image, scales it down to maxMediaWidth
// when wider, and re-encodes it as JPEG.
func processMedia(src io.Reader, originalName string) (Media, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return Media{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxMediaWidth {
		h = h * maxMediaWidth / w
		if h < 1 {
			h = 1
		}
		w = maxMediaWidth
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Media{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	base := Slugify(strings.TrimSuffix(originalName, filepath.Ext(originalName)))
	if base == "" {
		base = "image"
	}
	return Media{
		Filename:     base + ".jpg",
		OriginalName: originalName,
		Width:        w,
		Height:       h,
		Size:         buf.Len(),
		UploadedAt:   time.Now().UTC().Format(time.RFC3339),
	}, buf.Bytes(), nil
}

func (a *App) uploadsDir() string {
	return filepath.Join(a.staticDir, uploadsSubdir)
}

// uniqueFilename appends -2, -3, ... until name is free on disk and in the store.
func (a *App) uniqueFilename(name string) (string, error) {
	base := strings.TrimSuffix(name, ".jpg")
	candidate := name
	for i := 2; i < maxNameRetries+2; i++ {
		_, statErr := os.Stat(filepath.Join(a.uploadsDir(), candidate))
		taken, err := a.Store.MediaExists(candidate)
		if err != nil {
			return "", err
		}
		if errors.Is(statErr, os.ErrNotExist) && !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d.jpg", base, i)
	}
	return "", fmt.Errorf("no free filename for %s", name)
}

func (a *App) handleMediaUpload(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.String(http.StatusBadRequest, "No image file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max 10MB)")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	m, data, err := processMedia(io.LimitReader(src, maxUploadSize), file.Filename)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
	}
	if m.Filename, err = a.uniqueFilename(m.Filename); err != nil {
		return err
	}

	if err := os.MkdirAll(a.uploadsDir(), 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(a.uploadsDir(), m.Filename), data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	if err := a.Store.SaveMedia(m); err != nil {
		return err
	}
	c.Logger().Infof("admin: uploaded %s (%dx%d, %d bytes)", m.Filename, m.Width, m.Height, m.Size)
	return a.renderMediaList(c)
}

func (a *App) handleMediaDelete(c echo.Context) error {
	filename := filepath.Base(c.Param("filename"))
	if filename == "" || filename == "." || filename == "/" {
		return c.String(http.StatusBadRequest, "Filename required")
	}
	if err := os.Remove(filepath.Join(a.uploadsDir(), filename)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	if err := a.Store.DeleteMedia(filename); err != nil {
		return err
	}
	return a.renderMediaList(c)
}

func (a *App) handleMediaList(c echo.Context) error {
	return a.renderMediaList(c)
}

func (a *App) renderMediaList(c echo.Context) error {
	media, err := a.Store.ListMedia()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminMedia(AdminView{Site: a.Config, Media: media, CSRFToken: CsrfToken(c)}))
}
