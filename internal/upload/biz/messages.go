package biz

import (
	"fmt"
	"math/rand"
	"strings"
)

var singleFileQuips = []string{
	"Fresh off the press: %s",
	"Delivered, signed and sealed: %s",
	"Your file now lives at %s",
	"Beamed up to the CDN: %s",
	"One file, zero drama: %s",
}

var multiFileQuips = []string{
	"The whole batch made it:\n%s",
	"All accounted for:\n%s",
	"Uploads complete, links below:\n%s",
	"Every last one of them:\n%s",
}

// SuccessMessage renders the upload result announcement for the given
// public URLs. The quip is picked uniformly at random.
func SuccessMessage(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	if len(urls) == 1 {
		quip := singleFileQuips[rand.Intn(len(singleFileQuips))]
		return fmt.Sprintf(quip, urls[0])
	}
	quip := multiFileQuips[rand.Intn(len(multiFileQuips))]
	return fmt.Sprintf(quip, strings.Join(urls, "\n"))
}

// FailureMessage renders the failed-file count announcement.
func FailureMessage(failed int) string {
	if failed <= 0 {
		return ""
	}
	if failed == 1 {
		return "one file didn't make it through"
	}
	return fmt.Sprintf("%d files didn't make it through", failed)
}

// GroupAbortMessage is sent when the pipeline itself breaks before the
// per-file results are known.
const GroupAbortMessage = "something went wrong while processing your files, none were uploaded"
