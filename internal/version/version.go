// Package version holds build metadata, set with -ldflags at release time:
//
//	go build -ldflags "-X github.com/keshon/botinvoker/internal/version.Version=v1.2.0"
package version

var (
	AppName   = "BotInvoker"
	Version   = "dev"
	BuildDate = "unknown"
)

// String renders "BotInvoker dev (built unknown)".
func String() string {
	return AppName + " " + Version + " (built " + BuildDate + ")"
}
