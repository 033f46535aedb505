package email

const (
	subjectLeadInviteFmt      = "New job request from %s"
	subjectLeadReminderFmt    = "Reminder: job request expires in %d hours"
	subjectLeadMarketplace    = "Your request is now open to all professionals"
	subjectReminderDueFmt     = "Upcoming: %s"
	subjectSeasonalFmt        = "Seasonal tip: %s"
	subjectQuoteAccepted      = "Your quote was accepted"
	subjectQuoteRejected      = "Your quote was not selected"
	subjectLicenseWarning     = "Your trade licence expires in 7 days"
	subjectLicenseExpiredFmt  = "Action needed: trade licence expired %d days ago"
	subjectLicenseAdminAlert  = "Professional trade licence alert"
)
