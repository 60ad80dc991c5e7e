package pipeline

import "github.com/amishk599/jobquery/internal/model"

// User-facing failure messages. Underlying error text is only logged.
const (
	MsgExtractionFailed = "Could not understand the search query. Please rephrase and try again."
	MsgExecutionFailed  = "Failed to fetch jobs. Please try again later."
	MsgInternal         = "Internal server error."
)

// Format maps a finished run onto the response envelope. It is pure.
func Format(st State) model.Envelope {
	switch {
	case st.ParsedQuery.Failed():
		return model.Envelope{
			Status:      model.StatusError,
			Message:     MsgExtractionFailed,
			ParsedQuery: st.ParsedQuery,
			Failure:     model.FailureExtraction,
		}
	case st.Result.Failed():
		return model.Envelope{
			Status:      model.StatusError,
			Message:     MsgExecutionFailed,
			ParsedQuery: st.ParsedQuery,
			Failure:     model.FailureExecution,
		}
	}
	data := st.Result.Rows
	if data == nil {
		data = []model.Row{}
	}
	return model.Envelope{
		Status:      model.StatusSuccess,
		Data:        data,
		ParsedQuery: st.ParsedQuery,
		SQL:         st.FilterQuery.String(),
	}
}

// InternalError is the envelope for failures no stage anticipated.
func InternalError() model.Envelope {
	return model.Envelope{
		Status:  model.StatusError,
		Message: MsgInternal,
		Failure: model.FailureInternal,
	}
}
