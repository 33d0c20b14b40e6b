// Package media resolves image URLs to files under the media root and produces resized
// variants for responsive srcsets.
package media

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/logging"
)

// VariantQuality is the WebP quality used for generated variants
const VariantQuality = 80

// ImageLibrary serves image metadata from a local media directory
type ImageLibrary struct {
	root       string // filesystem directory served under urlPrefix
	urlPrefix  string // e.g. "/media"
	variantDir string // relative to root
	logger     *logging.ChanneledLogger
	mu         sync.Mutex
}

// NewImageLibrary creates a library. logger may be nil.
func NewImageLibrary(root, urlPrefix, variantDir string, logger *logging.ChanneledLogger) *ImageLibrary {
	if variantDir == "" {
		variantDir = "variants"
	}
	return &ImageLibrary{
		root:       root,
		urlPrefix:  "/" + strings.Trim(urlPrefix, "/"),
		variantDir: variantDir,
		logger:     logger,
	}
}

// Root returns the media directory served under the URL prefix
func (l *ImageLibrary) Root() string {
	return l.root
}

// Locate maps an image URL to a file under the media root. URLs outside the prefix or
// escaping the root are rejected.
func (l *ImageLibrary) Locate(src string) (string, bool) {
	if l.root == "" {
		return "", false
	}
	u := src
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	u = strings.ReplaceAll(u, "%20", " ")

	prefix := l.urlPrefix + "/"
	if !strings.HasPrefix(u, prefix) {
		return "", false
	}
	rel := path.Clean("/" + strings.TrimPrefix(u, prefix))
	if rel == "/" {
		return "", false
	}

	full := filepath.Join(l.root, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", false
	}
	return full, true
}

// Dimensions reads the image header. Unreadable or unknown formats report ok == false.
func (l *ImageLibrary) Dimensions(src string) (int, int, bool) {
	full, ok := l.Locate(src)
	if !ok {
		return 0, 0, false
	}

	cfg, err := decodeConfig(full)
	if err != nil {
		l.debug("Image dimensions unavailable", "src", src, "error", err)
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}

func decodeConfig(full string) (image.Config, error) {
	f, err := os.Open(full)
	if err != nil {
		return image.Config{}, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(full), ".webp") {
		return webp.DecodeConfig(f)
	}
	cfg, _, err := image.DecodeConfig(f)
	return cfg, err
}

// VariantURL returns the URL of a WebP copy of src resized to width, generating it on
// first use. When no smaller variant can be produced the original URL is returned.
func (l *ImageLibrary) VariantURL(src string, width int) string {
	full, ok := l.Locate(src)
	if !ok || width <= 0 {
		return src
	}

	rel, err := filepath.Rel(l.root, full)
	if err != nil {
		return src
	}
	base := strings.TrimSuffix(rel, filepath.Ext(rel))
	variantRel := filepath.Join(l.variantDir, fmt.Sprintf("%s_%dw.webp", base, width))
	variantPath := filepath.Join(l.root, variantRel)
	variantURL := l.urlPrefix + "/" + filepath.ToSlash(variantRel)

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := os.Stat(variantPath); err == nil {
		return variantURL
	}

	if err := l.generate(full, variantPath, width); err != nil {
		l.debug("Variant not generated", "src", src, "width", width, "error", err)
		return src
	}
	return variantURL
}

func (l *ImageLibrary) generate(full, variantPath string, width int) error {
	img, err := openImage(full)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Dx() <= width {
		return fmt.Errorf("image is only %dpx wide", img.Bounds().Dx())
	}

	if err := os.MkdirAll(filepath.Dir(variantPath), 0755); err != nil {
		return fmt.Errorf("failed to create variant directory: %w", err)
	}

	resized := imaging.Resize(img, width, 0, imaging.Lanczos)
	if err := webp.Save(variantPath, resized, &webp.Options{Quality: VariantQuality}); err != nil {
		return fmt.Errorf("failed to save variant: %w", err)
	}
	if l.logger != nil {
		l.logger.Media().Info("Image variant generated", "path", variantPath, "width", width)
	}
	return nil
}

func openImage(full string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(full), ".webp") {
		return webp.Load(full)
	}
	return imaging.Open(full)
}

func (l *ImageLibrary) debug(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Media().Debug(msg, args...)
	}
}
