package events

// AssetCheckedOutEvent announces that an asset has been assigned to an
// employee. Published by the lifecycle service on the "asset_events"
// exchange with routing key "asset.checked.out".
type AssetCheckedOutEvent struct {
	AssetID    int64  `json:"assetId"`
	EmployeeID string `json:"employeeId"`
	Timestamp  string `json:"timestamp"`
}
