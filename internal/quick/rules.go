package quick

import "parkchat/internal/domain"

// QuickActionConfidence is the fixed confidence carried by every
// quick-action response.
const QuickActionConfidence = 0.95

// defaultRules mirrors the hand-authored quick actions shipped with
// the park chatbot. Declaration order is evaluation order.
var defaultRules = []Rule{
	{
		Intent: "place_info",
		Phrases: []string{
			"tell me about bale mountains national park",
			"tell me about bale mountains",
			"tell me about baale mountain",
			"park information",
			"about the park",
		},
		Parts: []domain.Part{
			{Type: domain.PartHeader, Content: domain.TextContent("Bale Mountains National Park Information")},
			{Type: domain.PartText, Content: domain.TextContent("Bale Mountains National Park is known for its diverse ecosystems, rare wildlife like the Ethiopian wolf, and stunning landscapes such as the Sanetti Plateau and Harenna Forest. It's perfect for wildlife enthusiasts and nature lovers.")},
		},
	},
	{
		Intent: "getting_there",
		Phrases: []string{
			"how do i get to bale mountains",
			"how do i get to baale mountain",
			"how to get there",
			"directions to bale mountains",
			"how to reach the park",
		},
		Parts: []domain.Part{
			{Type: domain.PartHeader, Content: domain.TextContent("How to Get to Bale Mountains National Park")},
			{Type: domain.PartText, Content: domain.TextContent("There are three main routes to reach Bale Mountains National Park:")},
			{Type: domain.PartList, Content: domain.ListContent(
				domain.StringNode("Route 1: Via Addis Ababa - Shashemene - Goba (460km, 6-8 hours)"),
				domain.StringNode("Route 2: Via Addis Ababa - Dodola - Adaba (380km, 5-7 hours)"),
				domain.StringNode("Route 3: Via Addis Ababa - Ziway - Shashemene (450km, 6-7 hours)"),
			)},
			{Type: domain.PartText, Content: domain.TextContent("💡 Tip: Goba town serves as the main gateway to the park with accommodation and supplies available.")},
		},
	},
	{
		Intent: "lodging",
		Phrases: []string{
			"accommodation options",
			"where can i stay",
			"lodging",
			"hotels",
			"places to stay",
		},
		Parts: []domain.Part{
			{Type: domain.PartHeader, Content: domain.TextContent("Accommodation Options")},
			{Type: domain.PartText, Content: domain.TextContent("There are several accommodation options available for visitors:")},
			{Type: domain.PartList, Content: domain.ListContent(
				domain.StringNode("Bale Mountain Lodge - Luxury eco-lodge with stunning views"),
				domain.StringNode("Goba Hotels - Various budget to mid-range options in Goba town"),
				domain.StringNode("Camping - Designated camping areas within the park"),
				domain.StringNode("Community Lodges - Local community-run accommodations"),
			)},
		},
	},
	{
		Intent: "activities_within_park",
		Phrases: []string{
			"what activities can i do",
			"activities in the park",
			"what can i do",
			"park activities",
		},
		Parts: []domain.Part{
			{Type: domain.PartHeader, Content: domain.TextContent("Activities in Bale Mountains National Park")},
			{Type: domain.PartText, Content: domain.TextContent("The park offers a wide range of activities for nature enthusiasts:")},
			{Type: domain.PartList, Content: domain.ListContent(
				domain.StringNode("Wildlife viewing (Ethiopian wolves, mountain nyala, etc.)"),
				domain.StringNode("Bird watching (over 280 species recorded)"),
				domain.StringNode("Hiking and trekking on various trails"),
				domain.StringNode("Photography of landscapes and wildlife"),
				domain.StringNode("Cultural visits to local communities"),
				domain.StringNode("Horseback riding"),
				domain.StringNode("Camping under the stars"),
			)},
		},
	},
	{
		Intent: "when_to_go",
		Phrases: []string{
			"when is the best time to visit",
			"best time to go",
			"when to visit",
			"best season",
		},
		Parts: []domain.Part{
			{Type: domain.PartHeader, Content: domain.TextContent("Best Time to Visit Bale Mountains")},
			{Type: domain.PartText, Content: domain.TextContent("The best time to visit depends on your preferences:")},
			{Type: domain.PartSection, Title: "Dry Season (October - March)", Content: domain.ListContent(
				domain.PartNode(domain.Part{Type: domain.PartList, Content: domain.ListContent(
					domain.StringNode("Best for wildlife viewing"),
					domain.StringNode("Clear skies and good visibility"),
					domain.StringNode("Easier road access"),
					domain.StringNode("Ideal for photography"),
				)}),
			)},
			{Type: domain.PartSection, Title: "Wet Season (April - September)", Content: domain.ListContent(
				domain.PartNode(domain.Part{Type: domain.PartList, Content: domain.ListContent(
					domain.StringNode("Lush green landscapes"),
					domain.StringNode("Wildflowers in bloom"),
					domain.StringNode("Bird migration season"),
					domain.StringNode("Some roads may be challenging"),
				)}),
			)},
		},
	},
	{
		Intent: "park_fees",
		Phrases: []string{
			"park fees",
			"entrance fees",
			"how much does it cost",
			"park entrance fee",
		},
		Parts: []domain.Part{
			{Type: domain.PartHeader, Content: domain.TextContent("Bale Mountains National Park Fees")},
			{Type: domain.PartText, Content: domain.TextContent("Park entrance fees vary by visitor type:")},
			{Type: domain.PartTable,
				Columns: []string{"Visitor Type", "Daily Fee"},
				Rows: [][]string{
					{"Foreign Tourist", "200 ETB"},
					{"Domestic Tourist", "50 ETB"},
					{"Student (with ID)", "25 ETB"},
					{"Local Community", "10 ETB"},
				},
			},
			{Type: domain.PartText, Content: domain.TextContent("💡 Additional fees may apply for camping, guides, and special activities.")},
		},
	},
}

// DefaultRules returns a copy of the built-in rule list.
func DefaultRules() []Rule {
	out := make([]Rule, len(defaultRules))
	copy(out, defaultRules)
	return out
}
