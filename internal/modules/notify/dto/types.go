package dto

type NotifierInfo struct {
	Name         string
	Version      string
	Enabled      bool
	Binary       string
	Capabilities []string
}

type DoctorResult struct {
	Name            string
	BinaryReachable bool
	ChecksumValid   bool
	LifecycleOK     bool
	Error           string
}

type SendInput struct {
	Title string
	Body  string
}

type SendOutput struct {
	Delivered []string
	Failed    []string
}
