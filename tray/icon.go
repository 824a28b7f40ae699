package tray

import (
	"encoding/binary"
	"sync"
)

const (
	iconSide    = 16
	xorBytes    = iconSide * iconSide * 4
	andBytes    = iconSide * 4 // 16 mask bits per row padded to 32
	bmpBytes    = 40 + xorBytes + andBytes
	entryOffset = 6 + 16
)

var (
	iconOnce sync.Once
	iconData []byte
)

// iconICO returns a 16x16 32-bit ICO built in memory: a red selection
// frame with a pen nib in the lower right corner, matching the default
// annotation color.
func iconICO() []byte {
	iconOnce.Do(func() { iconData = buildICO(drawIcon()) })
	return iconData
}

// drawIcon fills a top-down RGBA pixel grid.
func drawIcon() [][4]byte {
	px := make([][4]byte, iconSide*iconSide)
	red := [4]byte{255, 80, 80, 255}

	set := func(x, y int) {
		if x >= 0 && x < iconSide && y >= 0 && y < iconSide {
			px[y*iconSide+x] = red
		}
	}

	// Selection frame, one pixel inset.
	for i := 1; i < iconSide-1; i++ {
		set(i, 1)
		set(i, 14)
		set(1, i)
		set(14, i)
	}
	// Pen nib overlapping the lower right corner.
	for y := 10; y <= 14; y++ {
		for x := 10; x <= 14; x++ {
			set(x, y)
		}
	}
	return px
}

// buildICO serializes one 32-bit image as an ICO file. The XOR plane is
// bottom-up BGRA; the AND mask is zeroed because transparency comes from
// the alpha channel.
func buildICO(px [][4]byte) []byte {
	buf := make([]byte, entryOffset+bmpBytes)

	// ICONDIR
	binary.LittleEndian.PutUint16(buf[2:], 1) // type: icon
	binary.LittleEndian.PutUint16(buf[4:], 1) // image count

	// ICONDIRENTRY
	e := buf[6:]
	e[0] = iconSide
	e[1] = iconSide
	binary.LittleEndian.PutUint16(e[4:], 1)  // planes
	binary.LittleEndian.PutUint16(e[6:], 32) // bit count
	binary.LittleEndian.PutUint32(e[8:], bmpBytes)
	binary.LittleEndian.PutUint32(e[12:], entryOffset)

	// BITMAPINFOHEADER with doubled height for the XOR and AND planes.
	h := buf[entryOffset:]
	binary.LittleEndian.PutUint32(h[0:], 40)
	binary.LittleEndian.PutUint32(h[4:], iconSide)
	binary.LittleEndian.PutUint32(h[8:], iconSide*2)
	binary.LittleEndian.PutUint16(h[12:], 1)
	binary.LittleEndian.PutUint16(h[14:], 32)
	binary.LittleEndian.PutUint32(h[20:], xorBytes+andBytes)

	xor := buf[entryOffset+40:]
	for y := 0; y < iconSide; y++ {
		src := iconSide - 1 - y // bottom-up rows
		for x := 0; x < iconSide; x++ {
			p := px[src*iconSide+x]
			o := (y*iconSide + x) * 4
			xor[o] = p[2] // B
			xor[o+1] = p[1]
			xor[o+2] = p[0]
			xor[o+3] = p[3]
		}
	}
	return buf
}
