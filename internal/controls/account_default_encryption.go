package controls

import "github.com/cloudhygiene/ebsguard/internal/models"

const AccountDefaultEncryptionID = "ACCOUNT_DEFAULT_ENCRYPTION"

// AccountDefaultEncryptionControl checks that EBS encryption by default is
// enabled for the account in the evaluated region. It emits exactly one
// result with the account ID as the resource.
type AccountDefaultEncryptionControl struct{}

func (AccountDefaultEncryptionControl) ID() string   { return AccountDefaultEncryptionID }
func (AccountDefaultEncryptionControl) Name() string { return "Account Default Encryption" }

func (c AccountDefaultEncryptionControl) Evaluate(ctx ControlContext) []models.ControlResult {
	if ctx.Data == nil {
		return missingData(ctx, AccountDefaultEncryptionID, models.ResourceAccount)
	}

	switch ctx.Data.DefaultEncryption {
	case models.True:
		return []models.ControlResult{result(ctx, AccountDefaultEncryptionID, ctx.AccountID,
			models.ResourceAccount, models.OutcomePass, "")}
	case models.False:
		return []models.ControlResult{result(ctx, AccountDefaultEncryptionID, ctx.AccountID,
			models.ResourceAccount, models.OutcomeFail, "EBS encryption by default is disabled")}
	default:
		return []models.ControlResult{result(ctx, AccountDefaultEncryptionID, ctx.AccountID,
			models.ResourceAccount, models.OutcomeError, "encryption-by-default flag could not be read")}
	}
}
