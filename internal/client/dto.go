package client

import "parley/internal/types"

type SessionsResponse struct {
	Sessions []*types.Session `json:"sessions"`
}
