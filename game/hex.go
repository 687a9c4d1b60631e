package game

import (
	"fmt"
	"strconv"
	"strings"
)

// HexPosition is an offset coordinate on the board.
type HexPosition struct {
	Q int
	R int
}

// Axial offsets of the six neighbours, in a fixed order.
var hexDirections = [6]HexPosition{
	{Q: 1, R: 0},
	{Q: 0, R: 1},
	{Q: -1, R: 1},
	{Q: -1, R: 0},
	{Q: 0, R: -1},
	{Q: 1, R: -1},
}

func Hex(q, r int) HexPosition {
	return HexPosition{Q: q, R: r}
}

func (p HexPosition) String() string {
	return fmt.Sprintf("%d,%d", p.Q, p.R)
}

// MarshalText lets positions key JSON objects as "q,r".
func (p HexPosition) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *HexPosition) UnmarshalText(text []byte) error {
	parts := strings.Split(string(text), ",")
	if len(parts) != 2 {
		return fmt.Errorf("invalid hex position %q", text)
	}
	q, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return fmt.Errorf("invalid hex position %q: %w", text, err)
	}
	r, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return fmt.Errorf("invalid hex position %q: %w", text, err)
	}
	p.Q, p.R = q, r
	return nil
}

// Neighbors returns the six adjacent positions. Callers bounds-check them.
func (p HexPosition) Neighbors() [6]HexPosition {
	var out [6]HexPosition
	for i, d := range hexDirections {
		out[i] = HexPosition{Q: p.Q + d.Q, R: p.R + d.R}
	}
	return out
}

// Distance converts both positions from offset to axial coordinates and
// returns the cube distance between them.
func Distance(a, b HexPosition) int {
	ar := a.R - floorDiv(a.Q, 2)
	br := b.R - floorDiv(b.Q, 2)
	dq := a.Q - b.Q
	dr := ar - br
	return (abs(dq) + abs(dq+dr) + abs(dr)) / 2
}

// Board is the rectangular play area.
type Board struct {
	Width  int
	Height int
}

func (b Board) Contains(p HexPosition) bool {
	return p.Q >= 0 && p.Q < b.Width && p.R >= 0 && p.R < b.Height
}

// Positions lists every hex on the board in column-major order.
func (b Board) Positions() []HexPosition {
	out := make([]HexPosition, 0, b.Width*b.Height)
	for q := 0; q < b.Width; q++ {
		for r := 0; r < b.Height; r++ {
			out = append(out, HexPosition{Q: q, R: r})
		}
	}
	return out
}

// HexesInRange returns the on-board positions within n hexes of center,
// center included.
func (b Board) HexesInRange(center HexPosition, n int) []HexPosition {
	var out []HexPosition
	for _, p := range b.Positions() {
		if Distance(center, p) <= n {
			out = append(out, p)
		}
	}
	return out
}

// LineBetween returns the hexes strictly between a and b, stepping each time
// to the neighbour that is closest to b.
func LineBetween(a, b HexPosition) []HexPosition {
	var line []HexPosition
	cur := a
	for Distance(cur, b) > 1 {
		best := cur
		bestDist := Distance(cur, b)
		for _, n := range cur.Neighbors() {
			if d := Distance(n, b); d < bestDist {
				best, bestDist = n, d
			}
		}
		if best == cur {
			break
		}
		line = append(line, best)
		cur = best
	}
	return line
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
