package climate

// ThresholdPatch is a partial update of a room's climate limits and
// auto-control flag. Nil fields keep the room's current value.
type ThresholdPatch struct {
	TempMin            *float64 `json:"temp_min,omitempty"`
	TempMax            *float64 `json:"temp_max,omitempty"`
	HumidityMin        *float64 `json:"humidity_min,omitempty"`
	HumidityMax        *float64 `json:"humidity_max,omitempty"`
	AutoControlEnabled *bool    `json:"auto_control_enabled,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p *ThresholdPatch) IsEmpty() bool {
	return p.TempMin == nil && p.TempMax == nil &&
		p.HumidityMin == nil && p.HumidityMax == nil &&
		p.AutoControlEnabled == nil
}

// Apply overlays the patch's set fields onto the room.
func (p *ThresholdPatch) Apply(room *Room) {
	if p.TempMin != nil {
		room.TempMin = p.TempMin
	}
	if p.TempMax != nil {
		room.TempMax = p.TempMax
	}
	if p.HumidityMin != nil {
		room.HumidityMin = p.HumidityMin
	}
	if p.HumidityMax != nil {
		room.HumidityMax = p.HumidityMax
	}
	if p.AutoControlEnabled != nil {
		room.AutoControlEnabled = *p.AutoControlEnabled
	}
}
