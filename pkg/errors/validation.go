package errors

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Output formats understood by the render sinks.
var validFormats = map[string]bool{"svg": true, "png": true, "json": true}

// ValidateFormat checks a single output format name.
func ValidateFormat(format string) error {
	if !validFormats[format] {
		return New(ErrCodeInvalidFormat, "invalid format: %q (must be svg, png, or json)", format)
	}
	return nil
}

// ValidateFormats checks every entry and rejects an empty list.
func ValidateFormats(formats []string) error {
	if len(formats) == 0 {
		return New(ErrCodeInvalidFormat, "at least one output format is required")
	}
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Extensions accepted for source images and tile assets.
var (
	imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true, ".webp": true}
	assetExts = map[string]bool{".svg": true, ".png": true}
)

// ValidateImageName checks that an uploaded or local source image has a
// supported extension. Names without an extension are accepted and left to
// content sniffing.
func ValidateImageName(name string) error {
	if err := ValidateFilename(name); err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext != "" && !imageExts[ext] {
		return New(ErrCodeInvalidImage, "unsupported image type %q (jpg, png, gif, bmp, webp)", ext)
	}
	return nil
}

// ValidateAssetName checks a tile, mask or pattern file name.
func ValidateAssetName(name string) error {
	if err := ValidateFilename(name); err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext != "" && !assetExts[ext] {
		return New(ErrCodeInvalidAsset, "unsupported shape type %q (svg, png)", ext)
	}
	return nil
}

// ValidateFilename rejects names that could escape a directory when used
// as a path component: empty names, control characters, separators and
// parent references. Limited to 255 bytes.
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "file name cannot be empty")
	}
	if len(name) > 255 {
		return New(ErrCodeInvalidInput, "file name too long (max 255 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "file name contains invalid control characters")
		}
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return New(ErrCodeInvalidInput, "file name cannot contain path components: %q", name)
	}
	return nil
}

// ParseFrame parses a "WxH" frame size such as "1200x800".
func ParseFrame(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, New(ErrCodeInvalidInput, "invalid frame %q (want WxH)", s)
	}
	w, err1 := strconv.Atoi(ws)
	h, err2 := strconv.Atoi(hs)
	if err1 != nil || err2 != nil {
		return 0, 0, New(ErrCodeInvalidInput, "invalid frame %q (want WxH)", s)
	}
	if err := ValidateFrame(w, h); err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

// MaxFrameSide bounds explicit frame sizes.
const MaxFrameSide = 16384

// ValidateFrame checks explicit frame dimensions.
func ValidateFrame(w, h int) error {
	if w <= 0 || h <= 0 {
		return New(ErrCodeInvalidInput, "frame must be positive, got %s", frameString(w, h))
	}
	if w > MaxFrameSide || h > MaxFrameSide {
		return New(ErrCodeTooLarge, "frame %s exceeds %d px per side", frameString(w, h), MaxFrameSide)
	}
	return nil
}

func frameString(w, h int) string {
	return fmt.Sprintf("%dx%d", w, h)
}

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidateColor accepts "#rgb", "#rrggbb" and "#rrggbbaa" colors. The
// value is written into SVG attributes, so nothing else is allowed.
func ValidateColor(c string) error {
	if !hexColorRegex.MatchString(c) {
		return New(ErrCodeInvalidInput, "invalid color %q (want #rgb or #rrggbb)", c)
	}
	return nil
}
