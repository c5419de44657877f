package summarize

import "fmt"

// TemplateSpec pairs a minutes format with the instruction that produces it.
// The set of templates is fixed configuration data; components receive it as
// a slice so tests can substitute their own.
type TemplateSpec struct {
	// Name identifies the template in responses and generated file names.
	Name string
	// DBField is the column the published link is stored under.
	DBField string
	// BuildPrompt embeds the transcript into the template's instruction.
	BuildPrompt func(transcript string) string
}

const formalPrompt = `Summarize the following transcription and format it like this formal Minutes of the Meeting:

[MEETING NAME:]
[DATE:]
[TIME:]
[VENUE:]
[PRESENT:]

[CALL TO ORDER:]
[Who started the meeting and at what time.]

[MATTERS ARISING:]
• Bullet points of major topics.

[MEETING AGENDA:]
• Agenda Title
   - Discussion points
   - Action points

[ANNOUNCEMENTS:]
[List]

[ADJOURNMENT:]
[Closing remarks]

Here is the transcription:
"%s"`

const simplePrompt = `Summarize and format this as a simple MoM:

Meeting Title:
Date:
Time:
Venue:
Attendees:

Key Points Discussed:
- ...

Action Items:
- ...

Closing Notes:
"%s"`

const detailedPrompt = `Summarize this transcript into a detailed Minutes of the Meeting with:

Meeting Information
- Name
- Date
- Time
- Venue
- Participants

Detailed Agenda:
For each item:
• Title
• Discussions
• Decisions
• Action points

Other Announcements:
Closing:
"%s"`

// Templates returns the fixed template table: Formal, Simple, Detailed.
func Templates() []TemplateSpec {
	return []TemplateSpec{
		{
			Name:    "Template-Formal",
			DBField: "formal_template",
			BuildPrompt: func(t string) string {
				return fmt.Sprintf(formalPrompt, t)
			},
		},
		{
			Name:    "Template-Simple",
			DBField: "simple_template",
			BuildPrompt: func(t string) string {
				return fmt.Sprintf(simplePrompt, t)
			},
		},
		{
			Name:    "Template-Detailed",
			DBField: "detailed_template",
			BuildPrompt: func(t string) string {
				return fmt.Sprintf(detailedPrompt, t)
			},
		},
	}
}
