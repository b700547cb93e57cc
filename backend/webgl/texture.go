package webgl

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/glgpu/internal/gl"
)

// Texture errors.
var (
	// ErrTextureDestroyed is returned when operating on a destroyed texture.
	ErrTextureDestroyed = errors.New("webgl: texture has been destroyed")

	// ErrUnsupportedFormat is returned for formats WebGL2 cannot store.
	ErrUnsupportedFormat = errors.New("webgl: unsupported texture format")

	// ErrInvalidTextureSize is returned for zero or oversized extents.
	ErrInvalidTextureSize = errors.New("webgl: invalid texture size")

	// ErrInvalidSampleCount is returned when the sample count is not 1 or 4,
	// or a multisampled texture is not a single-layer 2D texture.
	ErrInvalidSampleCount = errors.New("webgl: invalid sample count")

	// ErrInvalidMipLevel is returned for mip level counts or levels outside
	// the texture.
	ErrInvalidMipLevel = errors.New("webgl: invalid mip level")

	// ErrNotSampleable is returned when an upload or copy needs a texture
	// object but the texture only has a renderbuffer.
	ErrNotSampleable = errors.New("webgl: texture has no texture object")

	// ErrTextureRange is returned when a region exceeds the texture.
	ErrTextureRange = errors.New("webgl: region out of texture bounds")
)

// TextureDescriptor describes a texture to create.
type TextureDescriptor struct {
	Label         string
	Size          gputypes.Extent3D
	MipLevelCount uint32
	SampleCount   uint32
	Dimension     gputypes.TextureDimension
	Format        gputypes.TextureFormat
	Usage         gputypes.TextureUsage
}

// Texture is a driver texture object, a renderbuffer, or both.
//
// A renderbuffer is used when the sample count is above one, since WebGL2
// has no multisample textures, and when the usage never samples or copies
// the texture. A multisampled texture that is also sampleable has both: the
// pass renders into the renderbuffer and resolves into the texture.
type Texture struct {
	device *Device
	label  string

	format gputypes.TextureFormat
	info   TextureFormatDesc
	usage  gputypes.TextureUsage
	dim    gputypes.TextureDimension

	width, height, layers int
	levels, samples       int

	target       gl.Enum
	texture      gl.Texture
	renderbuffer gl.Renderbuffer
	destroyed    bool
}

const textureObjectUsage = gputypes.TextureUsageTextureBinding |
	gputypes.TextureUsageCopySrc |
	gputypes.TextureUsageCopyDst

// CreateTexture allocates immutable storage for a texture.
func (d *Device) CreateTexture(desc *TextureDescriptor) (*Texture, error) {
	if d.destroyed {
		return nil, ErrDeviceDestroyed
	}
	if desc == nil {
		return nil, ErrNilDescriptor
	}
	info, ok := TextureFormatInfo(desc.Format)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, desc.Format)
	}

	t := &Texture{
		device:  d,
		label:   desc.Label,
		format:  desc.Format,
		info:    info,
		usage:   desc.Usage,
		dim:     desc.Dimension,
		width:   int(desc.Size.Width),
		height:  int(desc.Size.Height),
		layers:  int(max(desc.Size.DepthOrArrayLayers, 1)),
		levels:  int(max(desc.MipLevelCount, 1)),
		samples: int(max(desc.SampleCount, 1)),
	}
	if t.dim == gputypes.TextureDimension1D {
		t.height = 1
	}
	if err := t.validate(d.limits); err != nil {
		return nil, err
	}

	switch {
	case t.dim == gputypes.TextureDimension3D:
		t.target = gl.TEXTURE_3D
	case t.layers > 1:
		t.target = gl.TEXTURE_2D_ARRAY
	default:
		t.target = gl.TEXTURE_2D
	}

	needsTexture := desc.Usage&textureObjectUsage != 0
	if t.samples > 1 || !needsTexture {
		t.renderbuffer = d.f.CreateRenderbuffer()
		d.cache.bindRenderbuffer(t.renderbuffer)
		samples := t.samples
		if samples == 1 {
			samples = 0
		}
		d.f.RenderbufferStorageMultisample(gl.RENDERBUFFER, samples, info.InternalFormat, t.width, t.height)
	}
	if needsTexture {
		t.texture = d.f.CreateTexture()
		d.bindTexture(t.target, t.texture)
		if t.target == gl.TEXTURE_2D {
			d.f.TexStorage2D(t.target, t.levels, info.InternalFormat, t.width, t.height)
		} else {
			d.f.TexStorage3D(t.target, t.levels, info.InternalFormat, t.width, t.height, t.layers)
		}
	}

	slogger().Debug("webgl: texture created",
		slog.String("label", desc.Label),
		slog.Int("width", t.width),
		slog.Int("height", t.height),
		slog.Int("layers", t.layers),
		slog.Int("samples", t.samples),
		slog.Bool("texture", t.texture.Valid()),
		slog.Bool("renderbuffer", t.renderbuffer.Valid()),
	)
	return t, nil
}

func (t *Texture) validate(l Limits) error {
	if t.width <= 0 || t.height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidTextureSize, t.width, t.height)
	}
	if l.MaxTextureSize > 0 && (t.width > l.MaxTextureSize || t.height > l.MaxTextureSize) {
		return fmt.Errorf("%w: %dx%d exceeds %d", ErrInvalidTextureSize, t.width, t.height, l.MaxTextureSize)
	}
	if t.samples != 1 && t.samples != 4 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleCount, t.samples)
	}
	if t.samples > 1 && (t.layers > 1 || t.dim == gputypes.TextureDimension3D || t.levels > 1) {
		return fmt.Errorf("%w: multisampled textures are single-level 2D", ErrInvalidSampleCount)
	}
	if maxLevels := mipLevels(t.width, t.height); t.levels > maxLevels {
		return fmt.Errorf("%w: %d levels, at most %d", ErrInvalidMipLevel, t.levels, maxLevels)
	}
	return nil
}

// mipLevels returns the length of the full mip chain for a w x h texture.
func mipLevels(w, h int) int {
	n := 1
	for s := max(w, h); s > 1; s >>= 1 {
		n++
	}
	return n
}

// bindTexture binds t on the currently active unit, for uploads.
func (d *Device) bindTexture(target gl.Enum, t gl.Texture) {
	d.cache.bindTexture(d.cache.activeUnit, target, t)
}

// Label returns the debug label.
func (t *Texture) Label() string { return t.label }

// Format returns the texture format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// Size returns the width, height and layer count of mip level 0.
func (t *Texture) Size() (width, height, layers int) { return t.width, t.height, t.layers }

// MipLevelCount returns the number of mip levels.
func (t *Texture) MipLevelCount() int { return t.levels }

// SampleCount returns the number of samples per texel.
func (t *Texture) SampleCount() int { return t.samples }

// Usage returns the usage flags the texture was created with.
func (t *Texture) Usage() gputypes.TextureUsage { return t.usage }

// Sampleable reports whether the texture has a texture object that can be
// bound for sampling or used as a copy source and destination.
func (t *Texture) Sampleable() bool { return t.texture.Valid() }

// IsDestroyed reports whether Destroy has been called.
func (t *Texture) IsDestroyed() bool { return t.destroyed }

// Destroy deletes the texture object and renderbuffer. Render passes that
// attach the texture must be destroyed by the caller.
func (t *Texture) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	d := t.device
	if t.texture.Valid() {
		d.f.DeleteTexture(t.texture)
		d.cache.forgetTexture(t.texture)
	}
	if t.renderbuffer.Valid() {
		d.f.DeleteRenderbuffer(t.renderbuffer)
		d.cache.forgetRenderbuffer(t.renderbuffer)
	}
}

// levelSize returns the extent of a mip level.
func (t *Texture) levelSize(level int) (w, h, layers int) {
	w, h, layers = max(t.width>>level, 1), max(t.height>>level, 1), t.layers
	if t.target == gl.TEXTURE_3D {
		layers = max(t.layers>>level, 1)
	}
	return w, h, layers
}

func (t *Texture) checkRegion(level int, origin gputypes.Origin3D, size gputypes.Extent3D) error {
	if level < 0 || level >= t.levels {
		return fmt.Errorf("%w: level %d of %d", ErrInvalidMipLevel, level, t.levels)
	}
	w, h, layers := t.levelSize(level)
	if int(origin.X)+int(size.Width) > w ||
		int(origin.Y)+int(size.Height) > h ||
		int(origin.Z)+int(max(size.DepthOrArrayLayers, 1)) > layers {
		return fmt.Errorf("%w: origin %v size %v level %d is %dx%dx%d",
			ErrTextureRange, origin, size, level, w, h, layers)
	}
	return nil
}

// attach attaches one level and layer of t to the bound framebuffer at
// target. The renderbuffer is attached when useRenderbuffer is set or the
// texture has no texture object.
func (t *Texture) attach(f gl.Functions, target, point gl.Enum, level, layer int, useRenderbuffer bool) {
	switch {
	case useRenderbuffer || !t.texture.Valid():
		f.FramebufferRenderbuffer(target, point, gl.RENDERBUFFER, t.renderbuffer)
	case t.target == gl.TEXTURE_2D:
		f.FramebufferTexture2D(target, point, gl.TEXTURE_2D, t.texture, level)
	default:
		f.FramebufferTextureLayer(target, point, t.texture, level, layer)
	}
}

// ImageCopyTexture names a mip level and origin inside a texture.
type ImageCopyTexture struct {
	Texture  *Texture
	MipLevel int
	Origin   gputypes.Origin3D
}

// ImageCopyBuffer names a region of buffer memory with its row layout.
type ImageCopyBuffer struct {
	Buffer *Buffer
	Layout gputypes.TextureDataLayout
}

// unpackLayout sets the unpack row length and image height for layout.
// Zero values mean tightly packed.
func (d *Device) unpackLayout(info TextureFormatDesc, layout gputypes.TextureDataLayout) {
	d.cache.pixelStorei(gl.UNPACK_ALIGNMENT, 1)
	d.cache.pixelStorei(gl.UNPACK_ROW_LENGTH, int(layout.BytesPerRow)/info.TexelSize)
	d.cache.pixelStorei(gl.UNPACK_IMAGE_HEIGHT, int(layout.RowsPerImage))
}

// WriteTexture uploads data into a region of dst. layout describes the
// rows of data; a zero BytesPerRow means rows are tightly packed.
func (d *Device) WriteTexture(dst ImageCopyTexture, data []byte, layout gputypes.TextureDataLayout, size gputypes.Extent3D) error {
	t := dst.Texture
	if t == nil || t.destroyed {
		return ErrTextureDestroyed
	}
	if !t.texture.Valid() {
		return ErrNotSampleable
	}
	if err := t.checkRegion(dst.MipLevel, dst.Origin, size); err != nil {
		return err
	}
	if int(layout.Offset) > len(data) {
		return fmt.Errorf("%w: offset %d beyond %d bytes", ErrBufferRange, layout.Offset, len(data))
	}
	data = data[layout.Offset:]

	d.cache.bindBuffer(gl.PIXEL_UNPACK_BUFFER, 0)
	d.unpackLayout(t.info, layout)
	d.bindTexture(t.target, t.texture)
	o, depth := dst.Origin, int(max(size.DepthOrArrayLayers, 1))
	if t.target == gl.TEXTURE_2D {
		d.f.TexSubImage2D(t.target, dst.MipLevel, int(o.X), int(o.Y), int(size.Width), int(size.Height),
			t.info.Format, t.info.Type, data)
	} else {
		d.f.TexSubImage3D(t.target, dst.MipLevel, int(o.X), int(o.Y), int(o.Z), int(size.Width), int(size.Height), depth,
			t.info.Format, t.info.Type, data)
	}
	return nil
}

// WriteTextureImage converts img to RGBA8 and uploads it into a size.Width
// x size.Height region of dst. The image is scaled with Catmull-Rom when
// its bounds differ from the region. dst must have an RGBA8 format.
func (d *Device) WriteTextureImage(dst ImageCopyTexture, img image.Image, size gputypes.Extent3D) error {
	t := dst.Texture
	if t == nil || t.destroyed {
		return ErrTextureDestroyed
	}
	if t.info.Format != gl.RGBA || t.info.Type != gl.UNSIGNED_BYTE {
		return fmt.Errorf("%w: %v is not RGBA8", ErrUnsupportedFormat, t.format)
	}

	rect := image.Rect(0, 0, int(size.Width), int(size.Height))
	rgba := image.NewRGBA(rect)
	src := img.Bounds()
	if src.Dx() == rect.Dx() && src.Dy() == rect.Dy() {
		xdraw.Draw(rgba, rect, img, src.Min, xdraw.Src)
	} else {
		xdraw.CatmullRom.Scale(rgba, rect, img, src, xdraw.Src, nil)
	}

	size.DepthOrArrayLayers = 1
	return d.WriteTexture(dst, rgba.Pix, gputypes.TextureDataLayout{BytesPerRow: uint32(rgba.Stride)}, size)
}
