/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package export writes the composed drawing to a single raster image file.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	applog "sketchpad/internal/log"
	"sketchpad/internal/storage"
)

var (
	// ErrExportCancelled is returned when no destination was chosen.
	ErrExportCancelled   = errors.New("export cancelled")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// Format is an output encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// Extensions lists the accepted file extensions, used by save dialog filters.
var Extensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff"}

var extFormats = map[string]Format{
	".png": PNG, ".jpg": JPEG, ".jpeg": JPEG, ".bmp": BMP, ".tif": TIFF, ".tiff": TIFF,
}

// ResolvePath picks the format from the extension of path. A path without an
// extension gets ".png" appended.
func ResolvePath(path string) (string, Format, error) {
	if strings.TrimSpace(path) == "" {
		return "", "", ErrExportCancelled
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return path + ".png", PNG, nil
	}
	f, ok := extFormats[ext]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return path, f, nil
}

// Options tunes encoders.
type Options struct {
	// JPEGQuality in 1..100; 0 means the encoder default (90).
	JPEGQuality int
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format, opt Options) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		q := opt.JPEGQuality
		if q <= 0 || q > 100 {
			q = 90
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
}

// Source is something that can render itself as an export image.
type Source interface {
	Snapshot() *image.RGBA
	StrokeCount() int
}

// Result describes a written file.
type Result struct {
	Path    string
	Format  Format
	Width   int
	Height  int
	Bytes   int64
	Strokes int
}

// Save renders src and writes it to path. An empty path means the user
// cancelled and yields ErrExportCancelled without touching the filesystem.
func Save(path string, src Source, opt Options) (Result, error) {
	l := applog.WithOperation(applog.WithComponent("export"), "save")
	dst, f, err := ResolvePath(path)
	if err != nil {
		if !errors.Is(err, ErrExportCancelled) {
			l.Warn("export rejected", slog.String("path", path), slog.Any("err", err))
		}
		return Result{}, err
	}
	img := src.Snapshot()
	var buf bytes.Buffer
	if err := Encode(&buf, img, f, opt); err != nil {
		l.Error("encode failed", slog.String("format", string(f)), slog.Any("err", err))
		return Result{}, fmt.Errorf("encode %s: %w", f, err)
	}
	if err := storage.WriteFileAtomic(dst, buf.Bytes(), 0o644); err != nil {
		l.Error("write failed", slog.String("path", dst), slog.Any("err", err))
		return Result{}, fmt.Errorf("write %s: %w", dst, err)
	}
	res := Result{
		Path:    dst,
		Format:  f,
		Width:   img.Bounds().Dx(),
		Height:  img.Bounds().Dy(),
		Bytes:   int64(buf.Len()),
		Strokes: src.StrokeCount(),
	}
	l.Info("exported", slog.String("path", res.Path), slog.String("format", string(f)),
		slog.Int64("bytes", res.Bytes), slog.Int("strokes", res.Strokes))
	return res, nil
}
