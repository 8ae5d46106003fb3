//go:build !gocv

package cooking

import "image"

// findBlobs labels the 8-connected components of the band mask with a
// stack-based fill. This is the cgo-free default; build with -tags gocv for
// the OpenCV contour backend.
func findBlobs(frame image.Image, lower, upper HSV) []Blob {
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()
	mask := bandMask(frame, lower, upper)

	var out []Blob
	visited := make([]bool, w*h)
	stack := make([]int, 0, 64)
	for start := range mask {
		if !mask[start] || visited[start] {
			continue
		}
		minX, minY := w, h
		maxX, maxY := -1, -1
		area := 0
		visited[start] = true
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%w, i/w
			area++
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
			for dy := -1; dy <= 1; dy++ {
				ny := y + dy
				if ny < 0 || ny >= h {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					nx := x + dx
					if (dx == 0 && dy == 0) || nx < 0 || nx >= w {
						continue
					}
					j := ny*w + nx
					if mask[j] && !visited[j] {
						visited[j] = true
						stack = append(stack, j)
					}
				}
			}
		}
		area += enclosedHoles(mask, w, minX, minY, maxX, maxY, start)
		out = append(out, Blob{Box: image.Rect(minX, minY, maxX+1, maxY+1).Add(b.Min), Area: area})
	}
	return out
}

// enclosedHoles counts background pixels inside the region's bounding box
// that cannot reach the box border without crossing the region seeded at
// seed. Those pixels lie inside the region's outer contour and count toward
// its area.
func enclosedHoles(mask []bool, w, minX, minY, maxX, maxY, seed int) int {
	bw, bh := maxX-minX+1, maxY-minY+1
	if bw < 3 || bh < 3 {
		return 0
	}
	region := regionMembers(mask, w, minX, minY, maxX, maxY, seed)
	outside := make([]bool, bw*bh)
	stack := make([]int, 0, bw+bh)
	push := func(x, y int) {
		k := y*bw + x
		if outside[k] || region[k] {
			return
		}
		outside[k] = true
		stack = append(stack, k)
	}
	for x := 0; x < bw; x++ {
		push(x, 0)
		push(x, bh-1)
	}
	for y := 0; y < bh; y++ {
		push(0, y)
		push(bw-1, y)
	}
	for len(stack) > 0 {
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := k%bw, k/bw
		// background flows 4-connected; an 8-connected boundary closes it
		if x > 0 {
			push(x-1, y)
		}
		if x < bw-1 {
			push(x+1, y)
		}
		if y > 0 {
			push(x, y-1)
		}
		if y < bh-1 {
			push(x, y+1)
		}
	}
	holes := 0
	for k := range outside {
		if !outside[k] && !region[k] {
			holes++
		}
	}
	return holes
}

// regionMembers marks, within the bounding box, the pixels belonging to the
// 8-connected region containing seed.
func regionMembers(mask []bool, w, minX, minY, maxX, maxY, seed int) []bool {
	bw, bh := maxX-minX+1, maxY-minY+1
	member := make([]bool, bw*bh)
	sx, sy := seed%w-minX, seed/w-minY
	member[sy*bw+sx] = true
	stack := []int{sy*bw + sx}
	for len(stack) > 0 {
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := k%bw, k/bw
		for dy := -1; dy <= 1; dy++ {
			ny := y + dy
			if ny < 0 || ny >= bh {
				continue
			}
			for dx := -1; dx <= 1; dx++ {
				nx := x + dx
				if (dx == 0 && dy == 0) || nx < 0 || nx >= bw {
					continue
				}
				j := ny*bw + nx
				if !member[j] && mask[(ny+minY)*w+nx+minX] {
					member[j] = true
					stack = append(stack, j)
				}
			}
		}
	}
	return member
}

// bandMask returns a w*h row-major mask of the pixels of frame inside
// [lower, upper].
func bandMask(frame image.Image, lower, upper HSV) []bool {
	b := frame.Bounds()
	w := b.Dx()
	mask := make([]bool, w*b.Dy())
	forEachHSV(frame, func(x, y int, p HSV) {
		mask[y*w+x] = p.InBand(lower, upper)
	})
	return mask
}

