package entities

// Stats aggregates seat usage across all licenses.
type Stats struct {
	TotalLicenses   int `json:"totalLicenses"`
	TotalUsers      int `json:"totalUsers"`
	AvailableSlots  int `json:"availableSlots"`
	UsagePercentage int `json:"usagePercentage"`
}

// LicenseUsage is the seat view of a single license.
type LicenseUsage struct {
	LicenseID       string `json:"licenseId"`
	UsedSlots       int    `json:"usedSlots"`
	MaxUsers        int    `json:"maxUsers"`
	AvailableSlots  int    `json:"availableSlots"`
	UsagePercentage int    `json:"usagePercentage"`
	Full            bool   `json:"full"`
}

// ComputeStats folds licenses into cross-license totals.
func ComputeStats(licenses []License) Stats {
	var res Stats
	var totalSlots int
	for _, l := range licenses {
		res.TotalLicenses++
		res.TotalUsers += len(l.Users)
		res.AvailableSlots += l.AvailableSlots()
		totalSlots += l.MaxUsers
	}
	res.UsagePercentage = percentage(res.TotalUsers, totalSlots)
	return res
}
