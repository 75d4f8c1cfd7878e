package content

import (
	"fmt"
	"strings"
)

type topicClass int

const (
	classGeneric topicClass = iota
	classTechnology
	classScience
	classHistory
)

func classifyTopic(topic string) topicClass {
	lower := strings.ToLower(topic)
	switch {
	case containsAny(lower, "ai", "artificial intelligence", "machine learning", "computer", "technology", "software", "robot"):
		return classTechnology
	case containsAny(lower, "science", "physics", "chemistry", "biology", "gravity", "energy", "atom"):
		return classScience
	case containsAny(lower, "history", "war", "empire", "revolution", "ancient"):
		return classHistory
	default:
		return classGeneric
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// fallbackBundle builds a deterministic bundle for the topic. It is the
// guaranteed exit of the generator: every Section invariant holds and the
// topic string appears in the title and the narration.
func fallbackBundle(req Request) *Bundle {
	topic := req.Topic
	difficulty := string(req.Difficulty)
	audience := string(req.Audience)

	var intro, angle, domain string
	switch classifyTopic(topic) {
	case classTechnology:
		domain = "💻"
		intro = fmt.Sprintf("%s sits at the heart of modern technology and is changing how we work, learn and communicate.", topic)
		angle = "how engineers build and apply it"
	case classScience:
		domain = "🔬"
		intro = fmt.Sprintf("%s is a scientific idea we can understand through observation and experiment.", topic)
		angle = "the principles experiments have verified"
	case classHistory:
		domain = "📜"
		intro = fmt.Sprintf("%s shaped the world we live in, and its effects are still visible today.", topic)
		angle = "the events and people behind it"
	default:
		domain = "🌍"
		intro = fmt.Sprintf("%s is a fundamental idea that touches our everyday lives.", topic)
		angle = "the key principles behind it"
	}

	sections := []Section{
		{
			Title:      fmt.Sprintf("%s Explain %s", domain, topic),
			Subheading: fmt.Sprintf("**What is %s?**", topic),
			Content: fmt.Sprintf(
				"%s It helps us understand how things work in the world around us. "+
					"Learning about %s opens new perspectives and connections. "+
					"This knowledge is a foundation for many other subjects.",
				intro, topic),
			KeyPoints: []string{
				fmt.Sprintf("• %s affects daily life", topic),
				"• Helps understand how things work",
				"• Opens new perspectives",
				"• Foundation for other subjects",
			},
			VisualDescription: fmt.Sprintf("Visual: Animated diagram showing %s in action with clear, engaging graphics", topic),
			DurationEstimate:  defaultDuration,
		},
		{
			Title:      fmt.Sprintf("🔎 How %s Works", topic),
			Subheading: "**What are the key principles?**",
			Content: fmt.Sprintf(
				"The key principles of %s form the foundation of our understanding. "+
					"These principles work together to create the effects we observe. "+
					"Understanding them lets us predict and explain behavior. "+
					"They connect to many other areas of knowledge.",
				topic),
			KeyPoints: []string{
				fmt.Sprintf("• Key principles of %s", topic),
				"• Principles work together",
				"• Helps predict behavior",
				"• Connects to other knowledge",
			},
			VisualDescription: fmt.Sprintf("Visual: Animated diagrams showing the key principles of %s", topic),
			DurationEstimate:  defaultDuration + 5,
		},
		{
			Title:      "🌐 Real-World Applications",
			Subheading: fmt.Sprintf("**Where do we see %s?**", topic),
			Content: fmt.Sprintf(
				"%s appears in many real-world situations and applications. "+
					"It is used in technology, medicine and everyday life. "+
					"Seeing these applications shows why %s matters. "+
					"This knowledge helps us solve problems and make decisions.",
				topic, topic),
			KeyPoints: []string{
				fmt.Sprintf("• %s in technology", topic),
				"• Used in medicine",
				"• Appears in daily life",
				"• Helps solve problems",
			},
			VisualDescription: fmt.Sprintf("Visual: Real-world examples showing %s in action", topic),
			DurationEstimate:  defaultDuration,
		},
	}

	total := 0
	for _, s := range sections {
		total += s.DurationEstimate
	}

	return &Bundle{
		Summary: fmt.Sprintf("A %s level explanation of %s for %s, covering %s.",
			difficulty, topic, audience, angle),
		KeyConcepts: []string{
			fmt.Sprintf("Understanding %s", topic),
			fmt.Sprintf("Key principles of %s", topic),
			fmt.Sprintf("Applications of %s", topic),
			"Real-world examples",
		},
		Sections: sections,
		FullNarration: fmt.Sprintf(
			"Welcome to our exploration of %s. Today we will take a journey through this "+
				"fascinating subject, designed for %s at a %s level. We will start with the "+
				"basics of %s, look at %s, and finish with how this knowledge applies in "+
				"real life. By the end you will have a solid foundation in %s and understand "+
				"why it matters.",
			topic, audience, difficulty, topic, angle, topic),
		EstimatedDuration: total,
		Topic:             topic,
	}
}
