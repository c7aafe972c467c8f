// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sqlite

import "github.com/poiesic/papervec/core"

// FixtureArticles returns the articles of the sample corpus.
func FixtureArticles() []*core.Article {
	return []*core.Article{
		{
			ID:        "a01",
			Title:     "Hypertension and diabetes as risk factors for severe COVID-19",
			Authors:   []string{"Chen, Wei", "Liu, Yan", "Zhao, Min"},
			Published: "2020-04-14 00:00:00",
			Source:    "Journal of Infection",
			Reference: "https://doi.org/10.1000/jinf.2020.0414",
			Entry:     "2020-04-20",
		},
		{
			ID:        "a02",
			Title:     "Comorbidities among hospitalized COVID-19 patients",
			Authors:   []string{"Garcia, Maria"},
			Published: "2020-05-02 00:00:00",
			Source:    "The Lancet",
			Reference: "https://doi.org/10.1000/lancet.2020.0502",
			Entry:     "2020-05-05",
		},
		{
			ID:        "a03",
			Title:     "Smoking and outcomes of coronavirus infection",
			Authors:   []string{"Smith, John", "Brown, Alice"},
			Published: "2020-01-01 00:00:00",
			Source:    "Tobacco Induced Diseases",
			Reference: "https://doi.org/10.1000/tid.2020.0101",
			Entry:     "2020-03-30",
		},
		{
			ID:        "a04",
			Title:     "Incubation period of SARS-CoV-2 estimated from case reports",
			Authors:   []string{"Lauer, Stephen", "Grantz, Kyra"},
			Published: "2020-03-10",
			Source:    "Annals of Internal Medicine",
			Reference: "https://doi.org/10.1000/aim.2020.0310",
			Entry:     "2020-03-15",
		},
		{
			ID:        "a05",
			Title:     "Environmental stability of the virus on surfaces",
			Authors:   []string{"Doremalen, Neeltje", "Munster, Vincent"},
			Published: "2020-04-16",
			Source:    "New England Journal of Medicine",
			Reference: "https://doi.org/10.1000/nejm.2020.0416",
			Entry:     "2020-04-18",
		},
		{
			ID:        "a06",
			Title:     "Transmission of the virus in households and clusters",
			Authors:   []string{"Kim, Soo", "Park, Jin"},
			Published: "2020-06-01",
			Source:    "Emerging Infectious Diseases",
			Reference: "https://doi.org/10.1000/eid.2020.0601",
			Entry:     "2020-06-03",
		},
		{
			ID:        "a07",
			Title:     "Remdesivir treatment in hospitalized patients",
			Authors:   []string{"Beigel, John"},
			Published: "2020-05-22",
			Source:    "New England Journal of Medicine",
			Reference: "https://doi.org/10.1000/nejm.2020.0522",
			Entry:     "2020-05-25",
		},
		{
			ID:        "a08",
			Title:     "Mask use and reduction of respiratory transmission",
			Authors:   []string{"Chu, Derek", "Akl, Elie", "Duda, Stephanie"},
			Published: "2020-06-27",
			Source:    "The Lancet",
			Reference: "https://doi.org/10.1000/lancet.2020.0627",
			Entry:     "2020-06-30",
		},
		{
			ID:        "a09",
			Title:     "Age and mortality in a cohort of COVID-19 patients",
			Authors:   []string{"Zhou, Fei", "Yu, Ting"},
			Published: "2020",
			Source:    "The Lancet",
			Reference: "https://doi.org/10.1000/lancet.2020.0000",
		},
		{
			ID:        "a10",
			Title:     "Vaccine candidates against coronavirus",
			Published: "",
			Source:    "Vaccine",
			Reference: "https://doi.org/10.1000/vaccine.2020.0701",
			Entry:     "2020-07-02",
		},
	}
}

// FixtureSections returns the sections of the sample corpus, ordered by id.
func FixtureSections() []*core.Section {
	return []*core.Section{
		{ID: 1, ArticleID: "a01", Name: "TITLE", Text: "Hypertension and diabetes as risk factors for severe COVID-19"},
		{ID: 2, ArticleID: "a01", Name: "ABSTRACT", Tags: []string{"risk"}, Text: "Hypertension was the most common comorbidity among patients with severe COVID-19. Diabetes and hypertension were associated with increased risk of severe disease and mortality."},
		{ID: 3, ArticleID: "a01", Name: "RESULTS", Tags: []string{"risk"}, Text: "Patients with hypertension had an odds ratio of 2.3 for severe disease. Diabetes patients had higher mortality risk compared with patients without comorbidity."},
		{ID: 4, ArticleID: "a01", Name: "DISCUSSION", Text: "Hypertension and diabetes should be considered risk factors when triaging COVID-19 patients."},

		{ID: 5, ArticleID: "a02", Name: "TITLE", Text: "Comorbidities among hospitalized COVID-19 patients"},
		{ID: 6, ArticleID: "a02", Name: "ABSTRACT", Tags: []string{"risk"}, Text: "Among hospitalized patients, hypertension, obesity and diabetes were the most prevalent comorbidities. Comorbidity increased the risk of intensive care admission."},
		{ID: 7, ArticleID: "a02", Name: "METHODS", Text: "We reviewed records of hospitalized patients with confirmed COVID-19 infection admitted to hospitals in the region."},
		{ID: 8, ArticleID: "a02", Name: "RESULTS", Tags: []string{"risk"}, Text: "Obesity was associated with increased mortality among hospitalized patients. Mortality risk increased with the number of comorbidities."},

		{ID: 9, ArticleID: "a03", Name: "TITLE", Text: "Smoking and outcomes of coronavirus infection"},
		{ID: 10, ArticleID: "a03", Name: "ABSTRACT", Tags: []string{"risk"}, Text: "Smoking was associated with progression of COVID-19 disease. Current smokers had increased risk of severe outcomes and intensive care admission."},
		{ID: 11, ArticleID: "a03", Name: "RESULTS", Text: "Smoking history was reported for patients in the cohort. Smokers had higher mortality compared with patients who never smoked."},

		{ID: 12, ArticleID: "a04", Name: "TITLE", Text: "Incubation period of SARS-CoV-2 estimated from case reports"},
		{ID: 13, ArticleID: "a04", Name: "ABSTRACT", Tags: []string{"incubation"}, Text: "The median incubation period of SARS-CoV-2 infection was estimated at 5.1 days. Most patients develop symptoms within 11.5 days of infection."},
		{ID: 14, ArticleID: "a04", Name: "METHODS", Text: "Incubation period was estimated from confirmed case reports with known exposure and symptom onset."},
		{ID: 15, ArticleID: "a04", Name: "DISCUSSION", Text: "A quarantine period of 14 days covers the incubation period for most infection cases."},

		{ID: 16, ArticleID: "a05", Name: "TITLE", Text: "Environmental stability of the virus on surfaces"},
		{ID: 17, ArticleID: "a05", Name: "ABSTRACT", Tags: []string{"transmission"}, Text: "The virus remained viable in aerosols for hours and on plastic and steel surfaces for up to three days. Surface contamination may contribute to transmission."},
		{ID: 18, ArticleID: "a05", Name: "RESULTS", Text: "Virus stability on copper and cardboard surfaces was lower than on plastic and steel surfaces."},

		{ID: 19, ArticleID: "a06", Name: "TITLE", Text: "Transmission of the virus in households and clusters"},
		{ID: 20, ArticleID: "a06", Name: "ABSTRACT", Tags: []string{"transmission"}, Text: "Household transmission of the virus was common. Secondary attack rate among household contacts was higher than among other contacts."},
		{ID: 21, ArticleID: "a06", Name: "RESULTS", Text: "Clusters of infection were linked to household contacts and social gatherings. Transmission occurred before symptom onset in several clusters."},
		{ID: 22, ArticleID: "a06", Name: "DISCUSSION", Text: "Contact tracing of household contacts can reduce transmission of the virus."},

		{ID: 23, ArticleID: "a07", Name: "TITLE", Text: "Remdesivir treatment in hospitalized patients"},
		{ID: 24, ArticleID: "a07", Name: "ABSTRACT", Tags: []string{"treatment"}, Text: "Remdesivir treatment shortened recovery time in hospitalized patients with COVID-19 infection of the lower respiratory tract."},
		{ID: 25, ArticleID: "a07", Name: "RESULTS", Text: "Patients receiving remdesivir had a median recovery time of 11 days compared with 15 days for placebo. Mortality was lower with remdesivir treatment."},

		{ID: 26, ArticleID: "a08", Name: "TITLE", Text: "Mask use and reduction of respiratory transmission"},
		{ID: 27, ArticleID: "a08", Name: "ABSTRACT", Tags: []string{"transmission"}, Text: "Mask use was associated with reduction of respiratory virus transmission in community and health care settings."},
		{ID: 28, ArticleID: "a08", Name: "RESULTS", Text: "Physical distancing of one metre or more and mask use reduced risk of infection transmission."},

		{ID: 29, ArticleID: "a09", Name: "TITLE", Text: "Age and mortality in a cohort of COVID-19 patients"},
		{ID: 30, ArticleID: "a09", Name: "ABSTRACT", Tags: []string{"risk"}, Text: "Older age was associated with increased mortality among hospitalized COVID-19 patients in the cohort. Hypertension and diabetes were common among patients who died."},
		{ID: 31, ArticleID: "a09", Name: "RESULTS", Text: "Mortality risk increased with age. Patients older than 65 years had higher mortality."},

		{ID: 32, ArticleID: "a10", Name: "TITLE", Text: "Vaccine candidates against coronavirus"},
		{ID: 33, ArticleID: "a10", Name: "ABSTRACT", Tags: []string{"vaccine"}, Text: "Several vaccine candidates against coronavirus infection entered clinical trials. Vaccine development used mRNA and viral vector platforms."},
		{ID: 34, ArticleID: "a10", Name: "DISCUSSION", Text: "Vaccine trials measured immune response and safety in healthy volunteers."},
	}
}
