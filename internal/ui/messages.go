package ui

import (
	"mediafetch/internal/model"
	"mediafetch/internal/progress"
)

type jobUpdateMsg struct {
	U progress.Update
}

type jobLogMsg struct {
	L progress.Log
}

type jobResultMsg struct {
	R progress.Result
}

// jobDoneMsg is sent once the job function returns.
type jobDoneMsg struct {
	Res model.DownloadResult
	Err error
}
