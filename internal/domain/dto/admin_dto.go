package dto

type RepairOwnersResponse struct {
	Repaired      int    `json:"repaired"`
	FallbackOwner string `json:"fallback_owner"`
}

type OrphanListResponse struct {
	Count  int             `json:"count"`
	Assets []VideoResponse `json:"assets"`
}
