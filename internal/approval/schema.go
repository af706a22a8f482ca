package approval

// Built-in required detail keys per action type. The settings file may add
// or override entries; action types absent from the table have no required
// keys beyond a well-formed details map.
func defaultSchemas() map[string][]string {
	return map[string][]string{
		"send_email":   {"recipient", "body"},
		"post_social":  {"platform", "content"},
		"send_message": {"recipient", "content"},
	}
}

// contentKeys are the detail fields scanned for PII and credentials.
// Address-like fields (recipient) are excluded: an email address in the
// "to" line is not leaked PII, one in the message body may be.
var contentKeys = []string{"body", "content", "message", "subject", "text"}
