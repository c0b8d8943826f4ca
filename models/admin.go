package models

// AdminDashboardStats represents statistics for the admin dashboard
type AdminDashboardStats struct {
	TotalBAs             int64   `json:"totalBAs"`
	PendingKYC           int64   `json:"pendingKYC"`
	PendingWithdrawals   int64   `json:"pendingWithdrawals"`
	TotalPayoutProcessed float64 `json:"totalPayoutProcessed"`
	TotalCommissionPaid  float64 `json:"totalCommissionPaid"`
}

// RejectBARequest carries an optional KYC rejection reason
type RejectBARequest struct {
	Reason string `json:"reason,omitempty"`
}
