package records

// The built in schemas mirror the back-office REST contract: one
// resource per record type, string keys supplied by the caller, all
// fields required on create.

func Policyholder() Schema {
	return Schema{
		Type:     "Policyholder",
		Resource: "policyholders",
		Key:      "policyholder_id",
		Fields: []Field{
			{Name: "policyholder_id", Label: "Policyholder ID", Kind: KindString, Required: true},
			{Name: "name", Label: "Name", Kind: KindString, Required: true},
			{Name: "contact_info", Label: "Contact Info", Kind: KindString, Required: true},
		},
	}
}

func Policy() Schema {
	return Schema{
		Type:     "Policy",
		Resource: "policies",
		Key:      "policy_id",
		Fields: []Field{
			{Name: "policy_id", Label: "Policy ID", Kind: KindString, Required: true},
			{Name: "policy_type", Label: "Policy Type", Kind: KindString, Required: true},
			{Name: "coverage_amount", Label: "Coverage Amount", Kind: KindDecimal, Required: true},
			{Name: "start_date", Label: "Start Date", Kind: KindDate, Required: true},
			{Name: "end_date", Label: "End Date", Kind: KindDate, Required: true},
			{Name: "policyholder_id", Label: "Policyholder ID", Kind: KindString, Required: true},
		},
	}
}

func Claim() Schema {
	return Schema{
		Type:     "Claim",
		Resource: "claims",
		Key:      "claim_id",
		Fields: []Field{
			{Name: "claim_id", Label: "Claim ID", Kind: KindString, Required: true},
			{Name: "description", Label: "Description", Kind: KindString, Required: true},
			{Name: "amount", Label: "Amount", Kind: KindDecimal, Required: true},
			{Name: "date", Label: "Date", Kind: KindDate, Required: true, NotFuture: true},
			{Name: "status", Label: "Status", Kind: KindEnum, Required: true, Enum: []string{"Pending", "Approved", "Rejected"}},
			{Name: "policy_id", Label: "Policy ID", Kind: KindString, Required: true},
		},
	}
}

func BuiltIn() []Schema {
	return []Schema{Policyholder(), Policy(), Claim()}
}

func ByResource(resource string) (Schema, bool) {
	for _, s := range BuiltIn() {
		if s.Resource == resource {
			return s, true
		}
	}
	return Schema{}, false
}
