package testutils

import "github.com/getzep/nlu-authoring/pkg/models"

var TestExamples = []models.LabeledExample{
	{
		Text:       "book a flight to London",
		IntentName: "BookFlight",
		EntityLabels: []models.EntityLabel{
			{EntityName: "Location", StartCharIndex: 17, EndCharIndex: 22},
		},
	},
	{
		Text:       "what's the weather in Seattle",
		IntentName: "GetWeather",
		EntityLabels: []models.EntityLabel{
			{EntityName: "Location", StartCharIndex: 22, EndCharIndex: 28},
		},
	},
	{
		Text:       "hello",
		IntentName: "None",
	},
}
