package model

const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}
