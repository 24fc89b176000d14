package dto

import (
	"pharmalink/internal/domain/entity"
)

// WebSocket frame types
const (
	FrameConfigure      = "configure"
	FrameRefresh        = "refresh"
	FrameSnapshot       = "snapshot"
	FrameNewDemande     = "new_demande"
	FrameNewProposition = "new_proposition"
	FrameHaptic         = "haptic"
	FrameError          = "error"
)

// ClientFrame is sent by the app over the realtime socket.
type ClientFrame struct {
	Type    string `json:"type"`
	Status  string `json:"status,omitempty" validate:"omitempty,oneof=en_attente en_cours traite"`
	Limit   int    `json:"limit,omitempty" validate:"gte=0,lte=500"`
	Haptics bool   `json:"haptics,omitempty"`
}

// ServerFrame is pushed to the app.
type ServerFrame struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Style string      `json:"style,omitempty"`
	Error string      `json:"error,omitempty"`
}

type SnapshotData struct {
	Demandes []DemandeResponse   `json:"demandes"`
	Stats    entity.DemandeStats `json:"stats"`
	Loading  bool                `json:"loading"`
	Error    string              `json:"error,omitempty"`
}
