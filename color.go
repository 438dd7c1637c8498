package asciiportrait

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// RGB is a colour with 8-bit channels.
type RGB struct {
	r, g, b uint8
}

// NewRGB builds a colour from its channels.
func NewRGB(r, g, b uint8) RGB {
	return RGB{r: r, g: g, b: b}
}

// ParseHexColor parses "#rrggbb" or "#rgb".
func ParseHexColor(s string) (RGB, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return RGB{}, fmt.Errorf("colour %q: missing #", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("colour %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return rgbFromUint32(uint32(v)), nil
}

func rgbFromUint32(color uint32) RGB {
	return RGB{
		r: uint8(color >> 16),
		g: uint8(color >> 8),
		b: uint8(color),
	}
}

// colorDistance is the squared Euclidean distance between two colours.
func (c RGB) colorDistance(other RGB) float64 {
	dr := float64(c.r) - float64(other.r)
	dg := float64(c.g) - float64(other.g)
	db := float64(c.b) - float64(other.b)
	return dr*dr + dg*dg + db*db
}

func (c RGB) component(axis int) uint8 {
	switch axis {
	case 0:
		return c.r
	case 1:
		return c.g
	default:
		return c.b
	}
}

// xterm256 returns the standard xterm palette: 16 system colours, the
// 6x6x6 cube and the 24-step grey ramp.
func xterm256() []RGB {
	palette := make([]RGB, 0, 256)
	for _, v := range []uint32{
		0x000000, 0x800000, 0x008000, 0x808000, 0x000080, 0x800080, 0x008080, 0xc0c0c0,
		0x808080, 0xff0000, 0x00ff00, 0xffff00, 0x0000ff, 0xff00ff, 0x00ffff, 0xffffff,
	} {
		palette = append(palette, rgbFromUint32(v))
	}
	levels := [6]uint8{0, 95, 135, 175, 215, 255}
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				palette = append(palette, RGB{levels[r], levels[g], levels[b]})
			}
		}
	}
	for i := 0; i < 24; i++ {
		v := uint8(8 + 10*i)
		palette = append(palette, RGB{v, v, v})
	}
	return palette
}

// colorNode is a KD-tree node over palette entries.
type colorNode struct {
	color       RGB
	index       int
	left, right *colorNode
	splitAxis   int
}

type paletteEntry struct {
	color RGB
	index int
}

func buildKDTree(entries []paletteEntry) *colorNode {
	if len(entries) == 0 {
		return nil
	}
	axis := chooseSplitAxis(entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].color.component(axis) < entries[j].color.component(axis)
	})
	median := len(entries) / 2
	return &colorNode{
		color:     entries[median].color,
		index:     entries[median].index,
		left:      buildKDTree(entries[:median]),
		right:     buildKDTree(entries[median+1:]),
		splitAxis: axis,
	}
}

// chooseSplitAxis picks the channel with the largest variance.
func chooseSplitAxis(entries []paletteEntry) int {
	var mean, variance [3]float64
	for _, e := range entries {
		for axis := 0; axis < 3; axis++ {
			mean[axis] += float64(e.color.component(axis))
		}
	}
	for axis := range mean {
		mean[axis] /= float64(len(entries))
	}
	for _, e := range entries {
		for axis := 0; axis < 3; axis++ {
			d := float64(e.color.component(axis)) - mean[axis]
			variance[axis] += d * d
		}
	}
	if variance[0] > variance[1] && variance[0] > variance[2] {
		return 0
	} else if variance[1] > variance[2] {
		return 1
	}
	return 2
}

// nearest walks the tree for the entry closest to target. Ties keep the
// lower palette index.
func (node *colorNode) nearest(target RGB, best int, bestDist float64) (int, float64) {
	if node == nil {
		return best, bestDist
	}
	dist := node.color.colorDistance(target)
	if dist < bestDist || (dist == bestDist && node.index < best) {
		best, bestDist = node.index, dist
	}

	axisDist := float64(target.component(node.splitAxis)) - float64(node.color.component(node.splitAxis))
	next, other := node.left, node.right
	if axisDist >= 0 {
		next, other = node.right, node.left
	}
	best, bestDist = next.nearest(target, best, bestDist)
	if axisDist*axisDist <= bestDist {
		best, bestDist = other.nearest(target, best, bestDist)
	}
	return best, bestDist
}

var xtermTree = func() *colorNode {
	palette := xterm256()
	entries := make([]paletteEntry, len(palette))
	for i, c := range palette {
		entries[i] = paletteEntry{color: c, index: i}
	}
	return buildKDTree(entries)
}()

// NearestXterm returns the index of the xterm-256 palette entry closest
// to c.
func NearestXterm(c RGB) int {
	idx, _ := xtermTree.nearest(c, math.MaxInt, math.Inf(1))
	return idx
}

// ForegroundSGR normalises a colour setting to an SGR foreground code.
// SGR codes pass through; "#rrggbb" maps to the nearest 256-colour entry.
// An empty setting stays empty.
func ForegroundSGR(setting string) (string, error) {
	if setting == "" || IsForegroundSGR(setting) {
		return setting, nil
	}
	c, err := ParseHexColor(setting)
	if err != nil {
		return "", err
	}
	return "38;5;" + strconv.Itoa(NearestXterm(c)), nil
}
