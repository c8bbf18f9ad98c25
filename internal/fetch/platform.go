package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known job board platform.
type Platform string

const (
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the job board platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)

	switch {
	case strings.Contains(host, "greenhouse.io"):
		return PlatformGreenhouse
	case strings.Contains(host, "lever.co"):
		return PlatformLever
	case strings.Contains(host, "workday.com"), strings.Contains(host, "myworkdayjobs.com"):
		return PlatformWorkday
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors optimized for a
// specific platform, falling back to the generic job posting selectors.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformGreenhouse:
		return append([]string{".job__description.body", ".job__description", "#content"}, JobPostingSelectors()...)
	case PlatformLever:
		return append([]string{".posting-page", ".section-wrapper .section", ".posting"}, JobPostingSelectors()...)
	case PlatformWorkday:
		return append([]string{"[data-automation-id='jobPostingDescription']", ".jobPostingDescription"}, JobPostingSelectors()...)
	default:
		return JobPostingSelectors()
	}
}

// PlatformNoiseSelectors returns noise selectors for a specific platform.
func PlatformNoiseSelectors(platform Platform) []string {
	switch platform {
	case PlatformGreenhouse:
		return []string{".application", "#application", ".apply-button"}
	case PlatformLever:
		return []string{".postings-btn-wrapper", ".apply-button"}
	case PlatformWorkday:
		return []string{"[data-automation-id='applyButton']", ".applyButton"}
	default:
		return nil
	}
}
