package schema

// The four schema definitions. Section templates use {{variable}}
// placeholders and single-level {{#if variable}}...{{/if}} blocks. The
// "code" section is optional everywhere: the composer skips it entirely
// when no code is selected.

var bugFixSchema = Schema{
	ID:          "bug_fix_v1",
	Name:        "Bug Fix",
	Description: "Template for fixing bugs and resolving issues",
	Sections: []Section{
		{
			Name:     "goal",
			Title:    "## Goal",
			Template: MustParse("Fix the following issue: {{goal}}"),
			Required: true,
		},
		{
			Name:  "context",
			Title: "## Context",
			Template: MustParse("Working in: `{{activeFile}}`\n" +
				"{{#if cursorLine}}Current line: {{cursorLine}}{{/if}}\n" +
				"{{#if tone}}User tone: {{tone}}{{/if}}"),
			Required: true,
		},
		{
			Name:     "code",
			Title:    "## Relevant Code",
			Template: MustParse("```\n{{selectedCode}}\n```"),
			Required: false,
		},
		{
			Name:  "constraints",
			Title: "## Constraints",
			Template: MustParse("- Do NOT invent APIs, methods, or functions that don't exist in the codebase\n" +
				"- Explain any assumptions you make about the bug's root cause\n" +
				"- If the issue is unclear, ask for clarification before making changes\n" +
				"- Preserve existing functionality while fixing the bug\n" +
				"- Add appropriate error handling if missing"),
			Required: true,
		},
		{
			Name:  "output",
			Title: "## Expected Output",
			Template: MustParse("Provide:\n" +
				"1. Root cause analysis (brief)\n" +
				"2. The fix with code changes\n" +
				"3. Any additional recommendations to prevent similar issues"),
			Required: true,
		},
	},
	SafetyConstraints: []string{
		"Do not modify unrelated code",
		"Explain the root cause before fixing",
		"Preserve backward compatibility",
	},
}

var addFeatureSchema = Schema{
	ID:          "add_feature_v1",
	Name:        "Add Feature",
	Description: "Template for implementing new features",
	Sections: []Section{
		{
			Name:     "goal",
			Title:    "## Goal",
			Template: MustParse("Implement the following feature: {{goal}}"),
			Required: true,
		},
		{
			Name:  "context",
			Title: "## Context",
			Template: MustParse("Working in: `{{activeFile}}`\n" +
				"{{#if cursorLine}}Insert near line: {{cursorLine}}{{/if}}\n" +
				"IDE: {{ideType}}"),
			Required: true,
		},
		{
			Name:     "code",
			Title:    "## Existing Code",
			Template: MustParse("```\n{{selectedCode}}\n```"),
			Required: false,
		},
		{
			Name:  "constraints",
			Title: "## Constraints",
			Template: MustParse("- Do NOT invent APIs, libraries, or dependencies that aren't already in the project\n" +
				"- Follow the existing code style and patterns in this file\n" +
				"- If requirements are ambiguous, ask for clarification\n" +
				"- Keep the implementation simple and focused on the requested feature\n" +
				"- Add appropriate types if applicable"),
			Required: true,
		},
		{
			Name:  "output",
			Title: "## Expected Output",
			Template: MustParse("Provide:\n" +
				"1. Implementation code that integrates with the existing codebase\n" +
				"2. Brief explanation of the approach\n" +
				"3. Any necessary imports or dependencies (only existing ones)"),
			Required: true,
		},
	},
	SafetyConstraints: []string{
		"Use only existing project dependencies",
		"Follow existing code patterns",
		"Ask for clarification on ambiguous requirements",
	},
}

var explainCodeSchema = Schema{
	ID:          "explain_code_v1",
	Name:        "Explain Code",
	Description: "Template for code explanations",
	Sections: []Section{
		{
			Name:     "goal",
			Title:    "## Goal",
			Template: MustParse("{{goal}}"),
			Required: true,
		},
		{
			Name:  "context",
			Title: "## Context",
			Template: MustParse("File: `{{activeFile}}`\n" +
				"{{#if cursorLine}}Focus area: around line {{cursorLine}}{{/if}}"),
			Required: true,
		},
		{
			Name:     "code",
			Title:    "## Code to Explain",
			Template: MustParse("```\n{{selectedCode}}\n```"),
			Required: false,
		},
		{
			Name:  "constraints",
			Title: "## Constraints",
			Template: MustParse("- Explain in simple, clear language suitable for someone learning\n" +
				"- Break down complex concepts into digestible parts\n" +
				"- Use analogies where helpful\n" +
				"- If the code has issues, mention them but focus on explanation first\n" +
				"- Highlight any important patterns or best practices used"),
			Required: true,
		},
		{
			Name:  "output",
			Title: "## Expected Output",
			Template: MustParse("Provide:\n" +
				"1. High-level summary of what this code does\n" +
				"2. Step-by-step breakdown of how it works\n" +
				"3. Key concepts or patterns used\n" +
				"4. Any potential improvements (optional)"),
			Required: true,
		},
	},
	SafetyConstraints: []string{
		"Focus on education and clarity",
		"Avoid jargon without explanation",
		"Be accurate about what the code actually does",
	},
}

var specGenerationSchema = Schema{
	ID:          "spec_generation_v1",
	Name:        "Specification Generation",
	Description: "Template for generating technical specifications",
	Sections: []Section{
		{
			Name:     "goal",
			Title:    "## Goal",
			Template: MustParse("Generate a specification for: {{goal}}"),
			Required: true,
		},
		{
			Name:  "context",
			Title: "## Context",
			Template: MustParse("Related file: `{{activeFile}}`\n" +
				"{{#if selectedCode}}Reference implementation exists{{/if}}"),
			Required: true,
		},
		{
			Name:     "code",
			Title:    "## Reference Code",
			Template: MustParse("```\n{{selectedCode}}\n```"),
			Required: false,
		},
		{
			Name:  "constraints",
			Title: "## Constraints",
			Template: MustParse("- Create a clear, actionable specification\n" +
				"- Include user stories with acceptance criteria\n" +
				"- Define functional requirements (FR-XXX format)\n" +
				"- List success criteria with measurable outcomes\n" +
				"- Keep scope focused and achievable\n" +
				"- Identify any assumptions or dependencies"),
			Required: true,
		},
		{
			Name:  "output",
			Title: "## Expected Output",
			Template: MustParse("Generate a specification document with:\n" +
				"1. **Overview**: Brief description of the feature/system\n" +
				"2. **User Stories**: Prioritized user journeys (P1, P2, P3)\n" +
				"3. **Functional Requirements**: Specific capabilities (FR-001, FR-002, etc.)\n" +
				"4. **Success Criteria**: Measurable outcomes\n" +
				"5. **Out of Scope**: What this spec does NOT cover\n" +
				"6. **Open Questions**: Any clarifications needed"),
			Required: true,
		},
	},
	SafetyConstraints: []string{
		"Be specific and measurable",
		"Avoid scope creep",
		"Identify dependencies and risks",
	},
}
