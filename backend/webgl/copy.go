package webgl

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glgpu/internal/gl"
)

// ErrUnsupportedCopy is returned for copies WebGL2 cannot express, such as
// reading back depth or stencil texels.
var ErrUnsupportedCopy = errors.New("webgl: unsupported copy")

// Every texture-to-texture and texture-to-buffer copy reads through the
// device's single scratch framebuffer. The source is attached to its color
// attachment, read, and detached again before the copy returns. Only the
// read framebuffer binding changes, so a copy never disturbs the draw
// framebuffer of an active pass.

// attachCopySource binds the scratch framebuffer for reading with the given
// layer of src attached.
func (d *Device) attachCopySource(src ImageCopyTexture, layer int) {
	d.cache.bindFramebuffer(gl.READ_FRAMEBUFFER, d.copyFB)
	src.Texture.attach(d.f, gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, src.MipLevel, layer, false)
	d.assertFramebufferComplete(gl.READ_FRAMEBUFFER, "copy")
}

func (d *Device) detachCopySource(src ImageCopyTexture) {
	t := src.Texture
	if t.texture.Valid() {
		if t.target == gl.TEXTURE_2D {
			d.f.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, 0, 0)
		} else {
			d.f.FramebufferTextureLayer(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, 0, 0, 0)
		}
		return
	}
	d.f.FramebufferRenderbuffer(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, 0)
}

// copySource validates a texture used as a read source. Multisampled
// renderbuffers cannot be read directly; their resolved texture is read
// instead.
func copySource(src ImageCopyTexture, size gputypes.Extent3D) error {
	t := src.Texture
	if t == nil || t.destroyed {
		return ErrTextureDestroyed
	}
	if t.info.DepthStencil {
		return fmt.Errorf("%w: %v source", ErrUnsupportedCopy, t.format)
	}
	if !t.texture.Valid() && t.samples > 1 {
		return ErrNotSampleable
	}
	return t.checkRegion(src.MipLevel, src.Origin, size)
}

// CopyBufferToTexture uploads texels from a buffer through the pixel
// unpack binding.
func (d *Device) CopyBufferToTexture(src ImageCopyBuffer, dst ImageCopyTexture, size gputypes.Extent3D) error {
	if src.Buffer == nil || src.Buffer.destroyed {
		return ErrBufferDestroyed
	}
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

	d.cache.bindBuffer(gl.PIXEL_UNPACK_BUFFER, src.Buffer.buffer)
	d.unpackLayout(t.info, src.Layout)
	d.bindTexture(t.target, t.texture)
	o, off := dst.Origin, int(src.Layout.Offset)
	if t.target == gl.TEXTURE_2D {
		d.f.TexSubImage2DOffset(t.target, dst.MipLevel, int(o.X), int(o.Y), int(size.Width), int(size.Height),
			t.info.Format, t.info.Type, off)
	} else {
		d.f.TexSubImage3DOffset(t.target, dst.MipLevel, int(o.X), int(o.Y), int(o.Z),
			int(size.Width), int(size.Height), int(max(size.DepthOrArrayLayers, 1)),
			t.info.Format, t.info.Type, off)
	}
	d.cache.bindBuffer(gl.PIXEL_UNPACK_BUFFER, 0)
	return nil
}

// CopyTextureToBuffer reads texels into a buffer through the pixel pack
// binding, one layer at a time.
func (d *Device) CopyTextureToBuffer(src ImageCopyTexture, dst ImageCopyBuffer, size gputypes.Extent3D) error {
	if err := copySource(src, size); err != nil {
		return err
	}
	if dst.Buffer == nil || dst.Buffer.destroyed {
		return ErrBufferDestroyed
	}
	t := src.Texture
	rowLen := int(dst.Layout.BytesPerRow) / t.info.TexelSize
	if rowLen == 0 {
		rowLen = int(size.Width)
	}
	rows := int(dst.Layout.RowsPerImage)
	if rows == 0 {
		rows = int(size.Height)
	}
	layerBytes := rowLen * rows * t.info.TexelSize
	layers := int(max(size.DepthOrArrayLayers, 1))
	end := int(dst.Layout.Offset) + (layers-1)*layerBytes + ((int(size.Height)-1)*rowLen+int(size.Width))*t.info.TexelSize
	if err := dst.Buffer.checkRange(int(dst.Layout.Offset), end-int(dst.Layout.Offset)); err != nil {
		return err
	}

	d.cache.bindBuffer(gl.PIXEL_PACK_BUFFER, dst.Buffer.buffer)
	d.cache.pixelStorei(gl.PACK_ALIGNMENT, 1)
	d.cache.pixelStorei(gl.PACK_ROW_LENGTH, int(dst.Layout.BytesPerRow)/t.info.TexelSize)
	for z := 0; z < layers; z++ {
		d.attachCopySource(src, int(src.Origin.Z)+z)
		d.f.ReadPixelsOffset(int(src.Origin.X), int(src.Origin.Y), int(size.Width), int(size.Height),
			t.info.Format, t.info.Type, int(dst.Layout.Offset)+z*layerBytes)
	}
	d.detachCopySource(src)
	d.cache.bindBuffer(gl.PIXEL_PACK_BUFFER, 0)
	return nil
}

// CopyTextureToTexture copies a region between two textures of the same
// format, one layer at a time.
func (d *Device) CopyTextureToTexture(src, dst ImageCopyTexture, size gputypes.Extent3D) error {
	if err := copySource(src, size); err != nil {
		return err
	}
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

	d.bindTexture(t.target, t.texture)
	layers := int(max(size.DepthOrArrayLayers, 1))
	for z := 0; z < layers; z++ {
		d.attachCopySource(src, int(src.Origin.Z)+z)
		if t.target == gl.TEXTURE_2D {
			d.f.CopyTexSubImage2D(t.target, dst.MipLevel, int(dst.Origin.X), int(dst.Origin.Y),
				int(src.Origin.X), int(src.Origin.Y), int(size.Width), int(size.Height))
		} else {
			d.f.CopyTexSubImage3D(t.target, dst.MipLevel, int(dst.Origin.X), int(dst.Origin.Y), int(dst.Origin.Z)+z,
				int(src.Origin.X), int(src.Origin.Y), int(size.Width), int(size.Height))
		}
	}
	d.detachCopySource(src)
	return nil
}

// ReadTexturePixels synchronously reads one level and layer of an RGBA8
// texture. It stalls the pipeline and is meant for tests and debugging.
func (d *Device) ReadTexturePixels(t *Texture, level, layer int) ([]byte, error) {
	if t == nil || t.destroyed {
		return nil, ErrTextureDestroyed
	}
	if t.info.Format != gl.RGBA || t.info.Type != gl.UNSIGNED_BYTE {
		return nil, fmt.Errorf("%w: %v is not RGBA8", ErrUnsupportedFormat, t.format)
	}
	w, h, _ := t.levelSize(level)
	src := ImageCopyTexture{Texture: t, MipLevel: level, Origin: gputypes.Origin3D{Z: uint32(layer)}}
	if err := copySource(src, gputypes.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1}); err != nil {
		return nil, err
	}

	pixels := make([]byte, w*h*4)
	d.cache.bindBuffer(gl.PIXEL_PACK_BUFFER, 0)
	d.cache.pixelStorei(gl.PACK_ALIGNMENT, 1)
	d.cache.pixelStorei(gl.PACK_ROW_LENGTH, 0)
	d.attachCopySource(src, layer)
	d.f.ReadPixels(0, 0, w, h, gl.RGBA, gl.UNSIGNED_BYTE, pixels)
	d.detachCopySource(src)
	return pixels, nil
}
