//go:build windows

package wingdi

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/lxn/win"
)

// NewDIBFromRGBA copies img into a top-down 32-bit DIB section compatible
// with hdc. The returned bitmap must be released with win.DeleteObject.
func NewDIBFromRGBA(hdc win.HDC, img *image.RGBA) (win.HBITMAP, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return 0, fmt.Errorf("wingdi: empty image")
	}

	bi := win.BITMAPINFO{
		BmiHeader: win.BITMAPINFOHEADER{
			BiSize:        uint32(unsafe.Sizeof(win.BITMAPINFOHEADER{})),
			BiWidth:       int32(width),
			BiHeight:      -int32(height), // negative: top-down rows
			BiPlanes:      1,
			BiBitCount:    32,
			BiCompression: win.BI_RGB,
		},
	}

	var pBits unsafe.Pointer
	hBitmap := win.CreateDIBSection(hdc, &bi.BmiHeader, win.DIB_RGB_COLORS, &pBits, 0, 0)
	if hBitmap == 0 {
		return 0, fmt.Errorf("wingdi: CreateDIBSection failed")
	}

	// 32bpp rows are already DWORD aligned, stride is width*4.
	dst := unsafe.Slice((*byte)(pBits), width*height*4)
	for y := 0; y < height; y++ {
		srcRow := img.Pix[y*img.Stride : y*img.Stride+width*4]
		dstRow := dst[y*width*4 : (y+1)*width*4]
		// RGBA to BGRA
		for x := 0; x < width; x++ {
			dstRow[x*4+0] = srcRow[x*4+2]
			dstRow[x*4+1] = srcRow[x*4+1]
			dstRow[x*4+2] = srcRow[x*4+0]
			dstRow[x*4+3] = srcRow[x*4+3]
		}
	}

	return hBitmap, nil
}

// BlitBitmap draws hBitmap at (x, y) with the given size onto hdc.
func BlitBitmap(hdc win.HDC, hBitmap win.HBITMAP, x, y, width, height int32) {
	memDC := win.CreateCompatibleDC(hdc)
	defer win.DeleteDC(memDC)
	old := win.SelectObject(memDC, win.HGDIOBJ(hBitmap))
	defer win.SelectObject(memDC, old)
	win.BitBlt(hdc, x, y, width, height, memDC, 0, 0, win.SRCCOPY)
}

// BlitBitmapRegion draws the sub-rectangle (srcX, srcY, width, height) of
// hBitmap at (dstX, dstY) onto hdc.
func BlitBitmapRegion(hdc win.HDC, hBitmap win.HBITMAP, dstX, dstY, srcX, srcY, width, height int32) {
	memDC := win.CreateCompatibleDC(hdc)
	defer win.DeleteDC(memDC)
	old := win.SelectObject(memDC, win.HGDIOBJ(hBitmap))
	defer win.SelectObject(memDC, old)
	win.BitBlt(hdc, dstX, dstY, width, height, memDC, srcX, srcY, win.SRCCOPY)
}

// RGB builds a COLORREF from components.
func RGB(r, g, b byte) win.COLORREF {
	return win.COLORREF(uint32(r) | uint32(g)<<8 | uint32(b)<<16)
}
