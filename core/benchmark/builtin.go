package benchmark

import "time"

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// builtinCases is the minimal fallback dataset used when no external dataset
// can be loaded. Kept small on purpose: enough precedents to keep adjustment
// lookups meaningful in a degraded start.
func builtinCases() map[string]Adjustment {
	cases := []Adjustment{
		{
			Domain:          "facebook.com",
			ShockType:       "brand_transition",
			Severity:        SeverityCritical,
			TransitionDate:  mustDate("2021-10-28"),
			Industry:        "social_media",
			BaselineScore:   85.0,
			BehaviorPattern: "rapid_identity_pivot",
		},
		{
			Domain:          "twitter.com",
			ShockType:       "brand_transition",
			Severity:        SeverityCritical,
			TransitionDate:  mustDate("2023-07-24"),
			Industry:        "social_media",
			BaselineScore:   78.5,
			BehaviorPattern: "forced_rebrand",
		},
		{
			Domain:          "google.com",
			ShockType:       "corporate_restructure",
			Severity:        SeverityHigh,
			TransitionDate:  mustDate("2015-10-02"),
			Industry:        "technology",
			BaselineScore:   92.3,
			BehaviorPattern: "holding_company_split",
		},
		{
			Domain:          "ftx.com",
			ShockType:       "fraud_collapse",
			Severity:        SeverityCritical,
			TransitionDate:  mustDate("2022-11-11"),
			Industry:        "crypto",
			BaselineScore:   61.0,
			BehaviorPattern: "trust_cascade_failure",
		},
		{
			Domain:          "uber.com",
			ShockType:       "ceo_transition",
			Severity:        SeverityHigh,
			TransitionDate:  mustDate("2017-08-28"),
			Industry:        "ride_hailing",
			BaselineScore:   70.2,
			BehaviorPattern: "leadership_reset",
		},
		{
			Domain:          "slack.com",
			ShockType:       "acquisition_integration",
			Severity:        SeverityMedium,
			TransitionDate:  mustDate("2021-07-21"),
			Industry:        "enterprise_software",
			BaselineScore:   74.8,
			BehaviorPattern: "absorbed_identity",
		},
	}
	out := make(map[string]Adjustment, len(cases))
	for _, c := range cases {
		out[c.Domain] = c
	}
	return out
}
