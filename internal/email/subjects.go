package email

const (
	subjectLeadAssignedFmt       = "New lead assigned: %s"
	subjectPartnerPointsApproved = "Your referral rate has been approved"
	subjectPartnerPointsRejected = "Update on your referral rate request"
)
