package decide

import "github.com/sells-group/sourcing-cli/internal/model"

// maxPlanItems caps each action-plan list.
const maxPlanItems = 3

// Plan builds the verdict-branched 48-hour task split. Both lists are
// capped at three items.
func Plan(verdict model.Verdict, s Signals) model.ActionPlan {
	var today, tomorrow []string
	add := func(list *[]string, item string) {
		if len(*list) < maxPlanItems {
			*list = append(*list, item)
		}
	}

	switch verdict.Decision {
	case model.DecisionGo:
		add(&today, "Start supplier verification on the top match")
		add(&today, "Review the matched supplier listings for spec agreement")
		if !s.LabelOK {
			add(&today, "Upload a clear label photo to lock in compliance fields")
		}
		add(&tomorrow, "Follow up on outstanding supplier quotes")
		add(&tomorrow, "Confirm case-pack and lead time with the selected supplier")

	case model.DecisionHold:
		if s.SupplierMatches == 0 {
			add(&today, "Upload a barcode photo so matching can run")
			add(&today, "Upload the ingredient/label panel")
			add(&today, "Review the product category classification")
		} else {
			add(&today, "Expand verification to the next supplier matches")
			if !s.BarcodeOK {
				add(&today, "Upload a barcode photo")
			}
			if !s.LabelOK {
				add(&today, "Upload the missing label photo")
			}
			if !s.WeightOK {
				add(&today, "Weigh the unit and enter the measured weight")
			}
		}
		add(&tomorrow, "Confirm the HS code and customs category")
		if !s.OriginOK {
			add(&tomorrow, "Verify country of origin with the supplier")
		}
		add(&tomorrow, "Re-run the report once new evidence is in")

	case model.DecisionNo:
		add(&today, "Review the cost drivers behind the negative outcome")
		add(&today, "Check alternative specs or pack sizes for viable economics")
		if s.ComplianceSuspected() && !s.LabelOK {
			add(&today, "Capture the label to rule compliance triggers in or out")
		}
		add(&tomorrow, "Re-run with a revised target price or supplier quote")
		add(&tomorrow, "Archive the report if no viable variant exists")
	}

	return model.ActionPlan{Today: today, Tomorrow: tomorrow}
}
