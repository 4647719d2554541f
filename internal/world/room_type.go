// Package world provides dungeon layout generation and the room grid.
package world

// RoomType is the role a room plays in the dungeon.
type RoomType string

const (
	RoomNormal    RoomType = "NORMAL"
	RoomEntrance  RoomType = "ENTRANCE"
	RoomMiniBoss  RoomType = "MINI_BOSS"
	RoomArtifact  RoomType = "ARTIFACT"
	RoomFinalBoss RoomType = "FINAL_BOSS"
)

// String returns the room type name.
func (t RoomType) String() string {
	return string(t)
}

// ProblemCount returns how many problems a room of this type is populated with.
func (t RoomType) ProblemCount() int {
	switch t {
	case RoomMiniBoss, RoomArtifact:
		return 3
	default:
		return 1
	}
}
