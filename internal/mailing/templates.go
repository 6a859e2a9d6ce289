package mailing

// Notification templates. Defendant entries bind name, and per-offence
// title/plea/outcome exactly as supplied upstream.

const (
	// HearingSubject announces a resulted hearing for a case.
	HearingSubject = `Case {{ case_urn }}: {{ event_type }}`

	// HearingTitle heads the notification.
	HearingTitle = `Hearing result for case {{ case_urn }}`

	// HearingBody lists each matched defendant with plea and outcome.
	HearingBody = `The following activity was recorded for case {{ case_urn }}{% if court_centre != "" %} at {{ court_centre }}{% endif %}:
{% for d in defendants %}
{{ d.name | default: "Defendant" }}{% for o in d.offences %}
  - {{ o.title }}: plea {{ o.plea }}, outcome {{ o.outcome }}{% endfor %}{% endfor %}

View the case: {{ case_link }}
`

	// DocumentSubject announces a generated now/EDT document.
	DocumentSubject = `Case {{ case_urn }}: {{ document_type }} available`

	// DocumentTitle heads the document notification.
	DocumentTitle = `{{ document_type }} for case {{ case_urn }}`

	// DocumentBody references the generated material rather than a hearing.
	DocumentBody = `A {{ document_type }} has been generated for case {{ case_urn }}:
{% for d in defendants %}
{{ d.name | default: "Defendant" }}{% endfor %}

Material reference: {{ material_id }}
`
)
