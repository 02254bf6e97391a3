package types

// Change reasons recorded on plan periods. Free-form reasons are allowed for
// plan changes coming from payment webhooks; these two are well known and
// consumed by the reset job and entitlement checks.
const (
	ChangeReasonCancelScheduled   = "cancel_scheduled"
	ChangeReasonAutoDowngradeFree = "auto_downgrade_to_free"
)
