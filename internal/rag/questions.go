package rag

import "sort"

// QuestionTemplates are canned question sets for different audiences,
// used to generate a full repository assessment from one command.
var QuestionTemplates = map[string][]string{
	"programmer": {
		"What programming languages and build tools are used in this project?",
		"How is the codebase structured into packages or modules?",
		"What are the major classes or components and their responsibilities?",
		"What testing frameworks or tools are configured and how are they used?",
		"What are the core dependencies and how are they managed?",
		"Are there signs of good code quality such as meaningful comments, docstrings, and clean organization?",
		"Are there syntax errors or unimplemented methods in the codebase?",
		"How is the project built and deployed (e.g., Maven, Docker, CI/CD)?",
		"How is version control structured (e.g., branches, tags, commit frequency)?",
		"What naming conventions and style guides does the code follow?",
	},
	"ceo": {
		"What is the core objective or function of this project?",
		"Which business use case or problem is this codebase addressing?",
		"Who are the intended users or clients of this system?",
		"How mature is this codebase based on structure, documentation, and testing?",
		"Does this project have clear competitive advantages or unique features?",
		"Are there areas that would require long-term investment (maintenance, infrastructure)?",
		"What components appear reusable or scalable across business verticals?",
		"Are there known issues or blockers that may pose risks to adoption?",
		"What KPIs or success metrics can be derived from the code or tests?",
		"Is there a defined process for future releases or scaling this project?",
	},
	"sales_manager": {
		"Which customer pain point does this solution directly address?",
		"What features are clearly visible in the code or documentation?",
		"What type of clients or industries could benefit from this system?",
		"How is this product different from what competitors might offer?",
		"Does the versioning or changelog suggest active development?",
		"Are there any setup guides, APIs, or integrations that support onboarding?",
		"Does the repo include any user feedback, case studies, or testimonials?",
		"What pricing strategies are feasible based on the code structure (modular, usage-based, etc.)?",
		"Are there known technical limitations or support dependencies?",
		"What kind of support (issues, documentation, guides) can customers expect post-sale?",
	},
}

// Roles lists the available template roles, sorted.
func Roles() []string {
	roles := make([]string, 0, len(QuestionTemplates))
	for r := range QuestionTemplates {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	return roles
}
