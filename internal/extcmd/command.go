package extcmd

import (
	"fmt"
	"strings"
	"time"
)

// DefaultAuthor is written into downtime and acknowledgement commands.
const DefaultAuthor = "nagctl"

// Toggle selects the ENABLE_/DISABLE_ command prefix.
type Toggle string

const (
	Enable  Toggle = "ENABLE"
	Disable Toggle = "DISABLE"
)

// ParseToggle converts a command word ("enable"/"disable") to its toggle.
// Params: canonical command word.
// Returns: toggle or error for other words.
func ParseToggle(word string) (Toggle, error) {
	switch strings.ToLower(word) {
	case "enable":
		return Enable, nil
	case "disable":
		return Disable, nil
	default:
		return "", fmt.Errorf("unrecognized command: %s", word)
	}
}

// HostNotifications formats ENABLE|DISABLE_HOST_NOTIFICATIONS.
func HostNotifications(toggle Toggle, host string) string {
	return fmt.Sprintf("%s_HOST_NOTIFICATIONS;%s", toggle, host)
}

// ServiceNotifications formats ENABLE|DISABLE_SVC_NOTIFICATIONS.
func ServiceNotifications(toggle Toggle, host, service string) string {
	return fmt.Sprintf("%s_SVC_NOTIFICATIONS;%s;%s", toggle, host, service)
}

// HostCheck formats ENABLE|DISABLE_HOST_CHECK.
func HostCheck(toggle Toggle, host string) string {
	return fmt.Sprintf("%s_HOST_CHECK;%s", toggle, host)
}

// ServiceCheck formats ENABLE|DISABLE_SVC_CHECK.
func ServiceCheck(toggle Toggle, host, service string) string {
	return fmt.Sprintf("%s_SVC_CHECK;%s;%s", toggle, host, service)
}

// Downtime describes a fixed downtime window starting at issue time.
type Downtime struct {
	Start    time.Time
	Duration int64
	Author   string
	Comment  string
}

// End returns start plus duration in Unix seconds.
func (d Downtime) End() int64 {
	return d.Start.Unix() + d.Duration
}

// HostDowntime formats SCHEDULE_HOST_DOWNTIME with fixed=1, trigger=0.
// Params: host name and downtime window.
// Returns: command line without timestamp prefix.
func HostDowntime(host string, d Downtime) string {
	return fmt.Sprintf("SCHEDULE_HOST_DOWNTIME;%s;%d;%d;1;0;%d;%s;%s",
		host, d.Start.Unix(), d.End(), d.Duration, author(d.Author), d.Comment)
}

// ServiceDowntime formats SCHEDULE_SVC_DOWNTIME with fixed=1, trigger=0.
// Params: host and service names and downtime window.
// Returns: command line without timestamp prefix.
func ServiceDowntime(host, service string, d Downtime) string {
	return fmt.Sprintf("SCHEDULE_SVC_DOWNTIME;%s;%s;%d;%d;1;0;%d;%s;%s",
		host, service, d.Start.Unix(), d.End(), d.Duration, author(d.Author), d.Comment)
}

// CheckTime returns issue time shifted by offset seconds.
func CheckTime(issued time.Time, offset int64) int64 {
	return issued.Unix() + offset
}

// HostCheckSchedule formats SCHEDULE_HOST_CHECK.
func HostCheckSchedule(host string, at int64) string {
	return fmt.Sprintf("SCHEDULE_HOST_CHECK;%s;%d", host, at)
}

// ServiceCheckSchedule formats SCHEDULE_SVC_CHECK.
func ServiceCheckSchedule(host, service string, at int64) string {
	return fmt.Sprintf("SCHEDULE_SVC_CHECK;%s;%s;%d", host, service, at)
}

// Acknowledgement holds the author and comment of ACKNOWLEDGE_* commands.
type Acknowledgement struct {
	Author  string
	Comment string
}

// HostAcknowledgement formats ACKNOWLEDGE_HOST_PROBLEM (sticky=1, notify=0, persistent=0).
func HostAcknowledgement(host string, ack Acknowledgement) string {
	return fmt.Sprintf("ACKNOWLEDGE_HOST_PROBLEM;%s;1;0;0;%s;%s", host, author(ack.Author), ack.Comment)
}

// ServiceAcknowledgement formats ACKNOWLEDGE_SVC_PROBLEM (sticky=1, notify=0, persistent=0).
func ServiceAcknowledgement(host, service string, ack Acknowledgement) string {
	return fmt.Sprintf("ACKNOWLEDGE_SVC_PROBLEM;%s;%s;1;0;0;%s;%s", host, service, author(ack.Author), ack.Comment)
}

func author(value string) string {
	if value == "" {
		return DefaultAuthor
	}
	return value
}
