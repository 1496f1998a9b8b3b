package dto

// ProjectionStatusEntry reports one projection's progress against the log.
type ProjectionStatusEntry struct {
	Name                              string `json:"name"`
	LastProcessedGlobalSequenceNumber int64  `json:"lastProcessedGlobalSequenceNumber"`
	Lag                               int64  `json:"lag"`
}

// ProjectionStatusResponse reports the total event count and per-projection
// lag.
type ProjectionStatusResponse struct {
	TotalEvents int64                   `json:"totalEventsInStore"`
	Projections []ProjectionStatusEntry `json:"projections"`
}
