package points_config

import (
	_ "embed"
	"encoding/json"
)

// PointsConfig maps civic event types to the points they award.
type PointsConfig struct {
	EventPoints map[string]int `json:"event_points"`
}

//go:embed points_config.json
var pointsConfigBytes []byte

func NewPointsConfig() *PointsConfig {
	pointsConfig := &PointsConfig{}
	if err := json.Unmarshal(pointsConfigBytes, pointsConfig); err != nil {
		panic(err)
	}
	return pointsConfig
}
