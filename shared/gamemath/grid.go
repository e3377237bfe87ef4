package gamemath

import "github.com/go-gl/mathgl/mgl64"

// DefaultCellSize is the side length of one map square in world units.
const DefaultCellSize = 4.0

// CellCenter returns the world position of the center of square (indexX, indexZ).
func CellCenter(indexX, indexZ int, cellSize float64) mgl64.Vec3 {
	return GridToWorld(float64(indexX), float64(indexZ), cellSize)
}

// GridToWorld converts a position in grid units to world units. Roaming
// characters report fractional grid positions while walking between squares.
func GridToWorld(gridX, gridZ, cellSize float64) mgl64.Vec3 {
	half := cellSize / 2
	return mgl64.Vec3{gridX*cellSize + half, 0, gridZ*cellSize + half}
}
