package asyncnet_test

import (
	"fmt"
	"strings"
	"time"

	"github.com/codincodee/asyncnet"
)

func ExampleServer() {
	srv := asyncnet.New("localhost:3456", asyncnet.DialTCP, &asyncnet.Config{MaxDepth: 100})

	// keep only NMEA sentences
	srv.SetAdmissionPredicate(func(r asyncnet.Report) bool {
		return strings.HasPrefix(r.Text(), "$")
	})

	if err := srv.Start(); err != nil {
		fmt.Println(err)
		return
	}
	defer srv.Stop()

	srv.Send("GET STATUS")

	time.Sleep(100 * time.Millisecond)
	for _, r := range srv.Receive() {
		fmt.Println(r.Stamp.Format(time.TimeOnly), r.Text())
	}
}
