// Package prompts contains the descriptions fcmp advertises to MCP clients.
package prompts

// CompareToolDescription is the description for the compare tool.
const CompareToolDescription = `Select the most recently modified file from a list of paths, or the oldest with reverse=true.

Usage notes:
- paths must be absolute. They are evaluated in the given order and, when two files are judged equal, the earlier one wins.
- missing controls paths that do not exist: "oldest" (default) treats them as older than every file, "newest" as newer, "ignore" drops them and "error" fails the call.
- diff=true compares contents of files that share a modification time. The response metadata reports ambiguous=true when the selected file tied with a later file whose content differs.
- fold=true treats files with identical content as equal even when their modification times differ, so the earlier path is kept.
- method chooses how contents are compared: "digest" (default, cached xxhash fingerprints), "bytes", "cmp" or "diff".
- index=true returns the zero-based position of the selected path instead of the path itself.
- json=true returns the selected entry with its modification time, size and digest as JSON.`

// ServerInstructions is sent to clients when they connect.
const ServerInstructions = `fcmp answers "which of these files changed most recently?". Use the compare tool with absolute paths.`
