package render

import (
	"fmt"

	"github.com/Adda-Baaj/noobcash-web/internal/domain"
	"github.com/Adda-Baaj/noobcash-web/internal/wallet"
)

// User-facing submission messages.
const (
	MsgSuccess          = "Success!"
	MsgFieldsRequired   = "All fields required!"
	MsgNodeUnreachable  = "Node unreachable, transaction not sent."
	MsgUnexpectedFormat = "Node sent an unexpected response."
)

// Tones map to bootstrap background classes.
const (
	ToneSuccess = "success"
	ToneDanger  = "danger"
)

// BalanceView is the wallet balance card.
type BalanceView struct {
	Amount   string
	Unit     string
	Degraded bool
}

// HistoryRow is one table row; every field is already display text.
type HistoryRow struct {
	Index  int
	FromTo string
	Node   string
	Amount string
}

// HistoryView is the history panel. Visible is false when the node could not
// provide a usable history, in which case no table is drawn at all.
type HistoryView struct {
	Visible bool
	Rows    []HistoryRow
}

// SubmissionView is the response card shown after a form post.
type SubmissionView struct {
	Tone    string
	Message string
}

// Balance maps a balance result to its card.
func Balance(res wallet.BalanceResult) BalanceView {
	return BalanceView{
		Amount:   res.Balance.String(),
		Unit:     domain.Unit,
		Degraded: res.Degraded(),
	}
}

// History maps a history result to its panel, keeping node order.
func History(res wallet.HistoryResult) HistoryView {
	if res.Outcome != wallet.OutcomeSuccess {
		return HistoryView{}
	}
	rows := make([]HistoryRow, 0, len(res.History))
	for _, rec := range res.History {
		rows = append(rows, HistoryRow{
			Index:  rec.Index,
			FromTo: rec.FromTo,
			Node:   rec.Node,
			Amount: rec.Amount.String(),
		})
	}
	return HistoryView{Visible: true, Rows: rows}
}

// Submission maps a submission result to its response card. Only a 200 from the
// node renders as success.
func Submission(res wallet.SubmissionResult) SubmissionView {
	switch res.Outcome {
	case wallet.OutcomeSuccess:
		return SubmissionView{Tone: ToneSuccess, Message: MsgSuccess}
	case wallet.OutcomeValidationError:
		return SubmissionView{Tone: ToneDanger, Message: MsgFieldsRequired}
	case wallet.OutcomeHTTPError:
		return SubmissionView{Tone: ToneDanger, Message: fmt.Sprintf("Transaction failed (status %d).", res.StatusCode)}
	case wallet.OutcomeDataFormatError:
		return SubmissionView{Tone: ToneDanger, Message: MsgUnexpectedFormat}
	default:
		return SubmissionView{Tone: ToneDanger, Message: MsgNodeUnreachable}
	}
}
