package model

// ThemeOther is the catch-all theme for ideas that fit nothing else, and the
// downgrade target for model responses naming themes outside the taxonomy.
const ThemeOther = "Other"

// IndustryOther is the catch-all industry.
const IndustryOther = "Other"

// themeDescriptions is the closed classification taxonomy. The classifier
// prompt enumerates these and the parser rejects anything not listed.
var themeDescriptions = map[string]string{
	"AI & Machine Learning":        "Artificial intelligence, machine learning models, neural networks, deep learning, NLP, computer vision",
	"Cloud & Infrastructure":       "Cloud computing, infrastructure as code, containerization, orchestration, serverless, DevOps",
	"Data Analytics & Visualization": "Data analysis, business intelligence, dashboards, reporting, data visualization, insights",
	"Cybersecurity":                "Security solutions, threat detection, encryption, authentication, compliance, privacy",
	"Blockchain & Web3":            "Blockchain technology, cryptocurrency, smart contracts, DeFi, NFTs, distributed ledger",
	"IoT & Edge Computing":         "Internet of Things, edge devices, sensors, embedded systems, real-time processing",
	"Mobile Applications":          "Mobile app development, iOS, Android, cross-platform, mobile UX, responsive design",
	"Web Applications":             "Web development, frontend, backend, full-stack, web frameworks, APIs",
	"Automation & RPA":             "Process automation, robotic process automation, workflow automation, task automation",
	"Sustainability & Green Tech":  "Environmental solutions, carbon tracking, renewable energy, sustainability, climate tech",
	"Healthcare & Wellness":        "Health tech, telemedicine, patient care, medical devices, wellness apps, health monitoring",
	"Education & Learning":         "EdTech, e-learning, training platforms, skill development, educational tools",
	"Finance & FinTech":            "Financial technology, payments, banking, investment, personal finance, trading",
	"Supply Chain & Logistics":     "Supply chain management, logistics optimization, inventory, tracking, warehouse management",
	"Customer Experience":          "CX improvement, customer service, chatbots, personalization, customer engagement",
	"HR & Workforce Management":    "Human resources, recruitment, employee engagement, workforce planning, talent management",
	"Collaboration & Productivity": "Team collaboration, productivity tools, project management, communication platforms",
	"Gaming & Entertainment":       "Game development, entertainment platforms, AR/VR experiences, interactive media",
	"Social Impact":                "Social good, community development, accessibility, inclusion, humanitarian tech",
	"Smart Cities":                 "Urban technology, smart infrastructure, traffic management, public services, city planning",
	ThemeOther:                     "Ideas that don't fit into the above categories or span multiple domains",
}

// themeOrder fixes the enumeration order used in prompts so prompt text is
// deterministic across runs.
var themeOrder = []string{
	"AI & Machine Learning",
	"Cloud & Infrastructure",
	"Data Analytics & Visualization",
	"Cybersecurity",
	"Blockchain & Web3",
	"IoT & Edge Computing",
	"Mobile Applications",
	"Web Applications",
	"Automation & RPA",
	"Sustainability & Green Tech",
	"Healthcare & Wellness",
	"Education & Learning",
	"Finance & FinTech",
	"Supply Chain & Logistics",
	"Customer Experience",
	"HR & Workforce Management",
	"Collaboration & Productivity",
	"Gaming & Entertainment",
	"Social Impact",
	"Smart Cities",
	ThemeOther,
}

// AllThemes returns the theme names in prompt order.
func AllThemes() []string {
	out := make([]string, len(themeOrder))
	copy(out, themeOrder)
	return out
}

// ThemeDescription returns the description for a theme, or "" if unknown.
func ThemeDescription(name string) string {
	return themeDescriptions[name]
}

// ValidTheme reports whether name is part of the taxonomy.
func ValidTheme(name string) bool {
	_, ok := themeDescriptions[name]
	return ok
}

// Industries is the closed industry list offered to the classifier.
var Industries = []string{
	"BFSI (Banking, Financial Services, Insurance)",
	"CMT (Communications, Media, Technology)",
	"Healthcare & Life Sciences",
	"Manufacturing",
	"Retail & Consumer Goods",
	"Energy & Utilities",
	"Public Services & Government",
	IndustryOther,
}
