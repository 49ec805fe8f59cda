package usecase

// SubmissionState is the UI-visible state of one form instance:
// idle -> submitting -> success | error, and success|error -> idle on reset.
type SubmissionState interface {
	StateName() string
	isSubmissionState()
}

type Idle struct{}

type Submitting struct{}

type Succeeded struct {
	StorageID      string
	RelayDelivered bool
}

type Failed struct {
	Message string
	Fields  ValidationErrors
}

func (Idle) StateName() string       { return "idle" }
func (Submitting) StateName() string { return "submitting" }
func (Succeeded) StateName() string  { return "success" }
func (Failed) StateName() string     { return "error" }

func (Idle) isSubmissionState()       {}
func (Submitting) isSubmissionState() {}
func (Succeeded) isSubmissionState()  {}
func (Failed) isSubmissionState()     {}

// StateView is the JSON shape of a state.
type StateView struct {
	State     string            `json:"state"`
	Message   string            `json:"message,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	StorageID string            `json:"storageId,omitempty"`
}

func DescribeState(s SubmissionState) StateView {
	view := StateView{State: s.StateName()}
	switch st := s.(type) {
	case Succeeded:
		view.StorageID = st.StorageID
	case Failed:
		view.Message = st.Message
		if len(st.Fields) > 0 {
			view.Fields = st.Fields.ByField()
		}
	}
	return view
}
