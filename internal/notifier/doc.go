// Package notifier posts announcements for approved community events.
//
// The notifier package supports posting event announcements to various
// platforms including Twitter. It handles OAuth authentication, rate
// limiting, and message formatting. Only confidently classified community
// events should be fed to a notifier; review-flagged predictions stay in
// the email report until a reviewer signs off.
package notifier
