package errno

// Status 是对外可见的结果字符串，没有结构化错误载荷
type Status string

const (
	StatusDone           Status = "done"
	StatusSuccess        Status = "success"
	StatusFailed         Status = "failed"
	StatusNotFound       Status = "not found"
	StatusVoterNotFound  Status = "voter not found"
	StatusUnknownPartner Status = "unknown partner"
)

func (s Status) String() string {
	return string(s)
}

// StatusOf 把错误折叠成状态词汇
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case IsNotFound(err):
		return StatusNotFound
	default:
		return StatusFailed
	}
}
