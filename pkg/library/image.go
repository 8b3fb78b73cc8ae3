package library

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/dsoprea/go-exif/v2"
	jpegstructure "github.com/dsoprea/go-jpeg-image-structure"
	"github.com/jaytaylor/html2text"
	"github.com/muesli/smartcrop"
)

// imageInfo is what the library learns from decoding a stored image
type imageInfo struct {
	Width         int
	Height        int
	ThumbnailPath string
}

// processImage decodes the stored file and, when ThumbnailSize > 0, writes a
// square thumbnail next to it
func (l *Library) processImage(rel string) (imageInfo, error) {
	img, err := imaging.Open(l.files.Abs(rel))
	if err != nil {
		return imageInfo{}, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	info := imageInfo{Width: bounds.Dx(), Height: bounds.Dy()}
	if l.opts.ThumbnailSize <= 0 {
		return info, nil
	}

	thumbRel := thumbnailName(rel, l.opts.ThumbnailSize)
	thumb := l.thumbnail(img, l.opts.ThumbnailSize)
	if err := imaging.Save(thumb, l.files.Abs(thumbRel)); err != nil {
		return imageInfo{}, fmt.Errorf("failed to save thumbnail: %w", err)
	}
	info.ThumbnailPath = thumbRel
	return info, nil
}

// thumbnail crops img to a size x size square. Smart cropping picks the most
// interesting region and falls back to the center when analysis fails.
func (l *Library) thumbnail(img image.Image, size int) image.Image {
	if l.opts.SmartCrop {
		analyzer := smartcrop.NewAnalyzer(resizer{})
		crop, err := analyzer.FindBestCrop(img, size, size)
		if err == nil && !crop.Empty() {
			return imaging.Resize(imaging.Crop(img, crop), size, size, imaging.Lanczos)
		}
		l.logger.DebugWithFields("smart crop failed, using center crop", map[string]interface{}{
			"error": fmt.Sprint(err),
		})
	}
	return imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)
}

// resizer lets smartcrop scale images with imaging
type resizer struct{}

func (resizer) Resize(img image.Image, width, height uint) image.Image {
	return imaging.Resize(img, int(width), int(height), imaging.Lanczos)
}

// isJPEG reports whether the stored file looks like a JPEG by extension or MIME type
func isJPEG(rel, mimeType string) bool {
	lower := strings.ToLower(rel)
	return mimeType == "image/jpeg" || strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg")
}

// plainDescription renders an HTML description as plain text
func plainDescription(desc string) string {
	text, err := html2text.FromString(desc, html2text.Options{OmitLinks: true})
	if err != nil {
		return desc
	}
	return strings.TrimSpace(text)
}

// stampDescription writes ImageDescription into the JPEG's IFD0, rewriting
// the file in place
func stampDescription(jpegPath, description string) error {
	jmp := jpegstructure.NewJpegMediaParser()
	intfc, err := jmp.ParseFile(jpegPath)
	if err != nil {
		return fmt.Errorf("parse jpeg: %w", err)
	}

	sl := intfc.(*jpegstructure.SegmentList)
	rootIb, err := sl.ConstructExifBuilder()
	if err != nil {
		return fmt.Errorf("construct exif builder: %w", err)
	}

	ifd0Ib, err := exif.GetOrCreateIbFromRootIb(rootIb, "IFD0")
	if err != nil {
		return fmt.Errorf("get IFD0: %w", err)
	}

	if err := ifd0Ib.SetStandardWithName("ImageDescription", description); err != nil {
		return fmt.Errorf("set ImageDescription: %w", err)
	}

	if err := sl.SetExif(rootIb); err != nil {
		return fmt.Errorf("set exif: %w", err)
	}

	var b bytes.Buffer
	if err := sl.Write(&b); err != nil {
		return fmt.Errorf("write jpeg: %w", err)
	}

	info, err := os.Stat(jpegPath)
	if err != nil {
		return err
	}
	tmp := jpegPath + ".tmp"
	if err := os.WriteFile(tmp, b.Bytes(), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return os.Rename(tmp, jpegPath)
}
