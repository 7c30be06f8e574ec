// Package changelog generates release notes from git history.
//
// Commit titles follow a lightweight format, "<stem><flag> <Verb> summary",
// where the flag declares the semver impact (! breaking, ^ minor, ~ patch,
// = no change, ? unknown) and the leading verb picks the category. This
// package:
//   - parses commits into CommitRecords
//   - resolves the revision range since the last release
//   - folds the range into a View, dropping revert pairs
//   - renders the View through text templates
//   - patches the section between the LOG_START and LOG_END markers of the
//     changelog, tracking progress in its YAML frontmatter
package changelog
