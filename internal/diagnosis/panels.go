package diagnosis

// Field is one input of a panel form. Range is advisory text shown next to
// the form and is never enforced.
type Field struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Range       string `json:"range,omitempty"`
}

// Panel binds a fixed field order to the messages of one disease model.
type Panel struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Title        string  `json:"title"`
	Button       string  `json:"button"`
	Fields       []Field `json:"fields"`
	Positive     string  `json:"-"`
	Negative     string  `json:"-"`
	ErrorContext string  `json:"-"`
}

const (
	Diabetes     = "diabetes"
	Heart        = "heart"
	BreastCancer = "breast_cancer"
	Parkinsons   = "parkinsons"
)

// Panels returns the catalogue in sidebar order. The slice is freshly built
// on every call so callers cannot alter the shared definitions.
func Panels() []Panel {
	return []Panel{diabetesPanel(), heartPanel(), breastCancerPanel(), parkinsonsPanel()}
}

// Lookup returns the panel with the given id.
func Lookup(id string) (Panel, bool) {
	for _, p := range Panels() {
		if p.ID == id {
			return p, true
		}
	}
	return Panel{}, false
}

func diabetesPanel() Panel {
	return Panel{
		ID:     Diabetes,
		Name:   "Diabetes Disease Prediction",
		Title:  "Diabetes Disease Prediction",
		Button: "Diabetes Test result",
		Fields: []Field{
			{Key: "Pregnancies", Label: "Number of times pregnant", Description: "Number of times pregnant", Range: "0-17"},
			{Key: "Glucose", Label: "Glucose concentration", Description: "Plasma glucose concentration in an oral glucose tolerance test", Range: "30.46-199"},
			{Key: "BloodPressure", Label: "Blood pressure (mm Hg)", Description: "Diastolic blood pressure (mm Hg)", Range: "24-122"},
			{Key: "SkinThickness", Label: "Triceps skin fold thickness (mm)", Description: "Triceps skin fold thickness (mm)", Range: "7-99"},
			{Key: "Insulin", Label: "Insulin (mu U/ml)", Description: "2-Hour serum insulin (mu U/ml)", Range: "89.10-846"},
			{Key: "BMI", Label: "Body mass index", Description: "Body mass index (weight in kg/(height in m)^2)", Range: "18-67"},
			{Key: "DiabetesPedigreeFunction", Label: "Diabetes pedigree function value", Description: "Diabetes pedigree function", Range: "0-2.5"},
			{Key: "Age", Label: "Age of the patient", Description: "Age (years)"},
		},
		Positive:     "The person has a high probability of being Diabetic",
		Negative:     "The person has a low probability of being Diabetic",
		ErrorContext: "diabetes",
	}
}

func heartPanel() Panel {
	return Panel{
		ID:     Heart,
		Name:   "Heart Disease Prediction",
		Title:  "Heart Disease Prediction",
		Button: "Heart Disease Test result",
		Fields: []Field{
			{Key: "age", Label: "Age of the person", Description: "Age"},
			{Key: "sex", Label: "Sex: 0 for male, 1 for female", Description: "0 represents Male and 1 represents Female", Range: "0 or 1"},
			{Key: "cp", Label: "Chest pain type", Description: "Chest pain type", Range: "0-1-2-3"},
			{Key: "trestbps", Label: "Resting blood pressure (mm Hg)", Description: "Resting blood pressure", Range: "94-200"},
			{Key: "chol", Label: "Serum cholesterol (mg/dl)", Description: "Serum cholesterol in mg/dl", Range: "126-564"},
			{Key: "fbs", Label: "Fasting blood sugar (> 120 mg/dl)", Description: "Fasting blood sugar > 120 mg/dl"},
			{Key: "restecg", Label: "Resting electrocardiographic results (0, 1, 2)", Description: "Resting electrocardiographic results", Range: "0, 1, 2"},
			{Key: "thalach", Label: "Maximum heart rate achieved", Description: "Maximum heart rate achieved", Range: "71-202"},
			{Key: "exang", Label: "Exercise induced angina (0 or 1)", Description: "Exercise induced angina, binary value", Range: "0 or 1"},
			{Key: "oldpeak", Label: "Oldpeak", Description: "Depression induced by exercise relative to rest", Range: "0-6.2"},
			{Key: "slope", Label: "Slope of the peak exercise ST segment", Description: "The slope of the peak exercise ST segment", Range: "0-1-2"},
			{Key: "ca", Label: "Number of major vessels (0-3) colored by fluoroscopy", Description: "Number of major vessels colored by fluoroscopy", Range: "0-3"},
			{Key: "thal", Label: "Thal (0 = normal; 1 = fixed defect; 2 = reversible defect)", Description: "0 = normal; 1 = fixed defect; 2 = reversible defect", Range: "0, 1, 2"},
		},
		Positive:     "The person is more likely affected by heart disease",
		Negative:     "The person shows a low probability of having heart disease",
		ErrorContext: "heart disease",
	}
}

func parkinsonsPanel() Panel {
	return Panel{
		ID:     Parkinsons,
		Name:   "Parkinson Disease Prediction",
		Title:  "Parkinson Disease Prediction",
		Button: "Parkinson Disease Test result",
		Fields: []Field{
			{Key: "fo", Label: "MDVP:Fo(Hz)", Description: "Average vocal fundamental frequency", Range: "88.333-260.105"},
			{Key: "fhi", Label: "MDVP:Fhi(Hz)", Description: "Maximum vocal fundamental frequency", Range: "102.145-592.03"},
			{Key: "flo", Label: "MDVP:Flo(Hz)", Description: "Minimum vocal fundamental frequency", Range: "65.476-239.17"},
			{Key: "Jitter_percent", Label: "MDVP:Jitter(%)", Description: "Variation in fundamental frequency", Range: "0.00168-0.03316"},
			{Key: "Jitter_Abs", Label: "MDVP:Jitter(Abs)", Description: "Absolute jitter in milliseconds", Range: "0.000007-0.00026"},
			{Key: "RAP", Label: "MDVP:RAP", Description: "Relative amplitude perturbation", Range: "0.00068-0.02144"},
			{Key: "PPQ", Label: "MDVP:PPQ", Description: "Five-point amplitude perturbation quotient", Range: "0.00089-0.01958"},
			{Key: "DDP", Label: "Jitter:DDP", Description: "Difference of differences of period jitter", Range: "0.00204-0.06435"},
			{Key: "Shimmer", Label: "MDVP:Shimmer", Description: "Variation in amplitude", Range: "0.00954-0.11908"},
			{Key: "Shimmer_dB", Label: "MDVP:Shimmer(dB)", Description: "Shimmer in decibels", Range: "0.085-0.554"},
			{Key: "APQ3", Label: "Shimmer:APQ3", Description: "Three-point amplitude perturbation quotient", Range: "0.003-0.03593"},
			{Key: "APQ5", Label: "Shimmer:APQ5", Description: "Five-point amplitude perturbation quotient", Range: "0.00455-0.06425"},
			{Key: "APQ", Label: "MDVP:APQ", Description: "Average pitch period perturbation quotient", Range: "0.00371-0.13778"},
			{Key: "DDA", Label: "Shimmer:DDA", Description: "Degree of the difference of the average magnitude of difference of adjacent cycles", Range: "0.009-0.107"},
			{Key: "NHR", Label: "NHR", Description: "Noise-to-harmonics ratio", Range: "0.004-0.314"},
			{Key: "HNR", Label: "HNR", Description: "Harmonics-to-noise ratio", Range: "8.441-33.047"},
			{Key: "RPDE", Label: "RPDE", Description: "Recurrence period density entropy", Range: "0.25657-0.685151"},
			{Key: "DFA", Label: "DFA", Description: "Detrended fluctuation analysis", Range: "0.574263-0.825288"},
			{Key: "spread1", Label: "spread1", Description: "Nonlinear measure of fundamental frequency variation", Range: "-7.964058-0.336"},
			{Key: "spread2", Label: "spread2", Description: "Nonlinear measure of fundamental frequency variation", Range: "0.006272-2.284115"},
			{Key: "D2", Label: "D2", Description: "Nonlinear dynamic complexity measure", Range: "1.423287-3.671155"},
			{Key: "PPE", Label: "PPE", Description: "Pitch period entropy", Range: "0.044539-0.527367"},
		},
		Positive:     "The person shows a high likelihood of having Parkinson's disease",
		Negative:     "The person shows a low likelihood of having Parkinson's disease",
		ErrorContext: "Parkinson's disease",
	}
}

func breastCancerPanel() Panel {
	return Panel{
		ID:     BreastCancer,
		Name:   "Breast Cancer Prediction",
		Title:  "Breast Cancer Prediction",
		Button: "Breast Cancer Test result",
		Fields: []Field{
			{Key: "mean_radius", Label: "Mean Radius", Description: "Mean Radius", Range: "6.981-28.11"},
			{Key: "mean_texture", Label: "Mean Texture", Description: "Mean Texture", Range: "9.71-39.28"},
			{Key: "mean_perimeter", Label: "Mean Perimeter", Description: "Mean Perimeter", Range: "43.79-188.5"},
			{Key: "mean_area", Label: "Mean Area", Description: "Mean Area", Range: "143.5-2501.0"},
			{Key: "mean_smoothness", Label: "Mean Smoothness", Description: "Mean Smoothness", Range: "0.053-0.163"},
			{Key: "mean_compactness", Label: "Mean Compactness", Description: "Mean Compactness", Range: "0.019-0.345"},
			{Key: "mean_concavity", Label: "Mean Concavity", Description: "Mean Concavity", Range: "0.0-0.427"},
			{Key: "mean_concave_points", Label: "Mean Concave Points", Description: "Mean Concave Points", Range: "0.0-0.201"},
			{Key: "mean_symmetry", Label: "Mean Symmetry", Description: "Mean Symmetry", Range: "0.106-0.304"},
			{Key: "mean_fractal_dimension", Label: "Mean Fractal Dimension", Description: "Mean Fractal Dimension", Range: "0.05-0.097"},
			{Key: "radius_se", Label: "Radius SE", Description: "Radius SE", Range: "0.112-2.873"},
			{Key: "texture_se", Label: "Texture SE", Description: "Texture SE", Range: "0.36-4.885"},
			{Key: "perimeter_se", Label: "Perimeter SE", Description: "Perimeter SE", Range: "0.757-21.98"},
			{Key: "area_se", Label: "Area SE", Description: "Area SE", Range: "6.802-542.2"},
			{Key: "smoothness_se", Label: "Smoothness SE", Description: "Smoothness SE", Range: "0.001-0.031"},
			{Key: "compactness_se", Label: "Compactness SE", Description: "Compactness SE", Range: "0.002-0.135"},
			{Key: "concavity_se", Label: "Concavity SE", Description: "Concavity SE", Range: "0.0-0.396"},
			{Key: "concave_points_se", Label: "Concave Points SE", Description: "Concave Points SE", Range: "0.0-0.053"},
			{Key: "symmetry_se", Label: "Symmetry SE", Description: "Symmetry SE", Range: "0.008-0.079"},
			{Key: "fractal_dimension_se", Label: "Fractal Dimension SE", Description: "Fractal Dimension SE", Range: "0.001-0.03"},
			{Key: "worst_radius", Label: "Worst Radius", Description: "Worst Radius", Range: "7.93-36.04"},
			{Key: "worst_texture", Label: "Worst Texture", Description: "Worst Texture", Range: "12.02-49.54"},
			{Key: "worst_perimeter", Label: "Worst Perimeter", Description: "Worst Perimeter", Range: "50.41-251.2"},
			{Key: "worst_area", Label: "Worst Area", Description: "Worst Area", Range: "185.2-4254.0"},
			{Key: "worst_smoothness", Label: "Worst Smoothness", Description: "Worst Smoothness", Range: "0.071-0.223"},
			{Key: "worst_compactness", Label: "Worst Compactness", Description: "Worst Compactness", Range: "0.027-1.058"},
			{Key: "worst_concavity", Label: "Worst Concavity", Description: "Worst Concavity", Range: "0.0-1.252"},
			{Key: "worst_concave_points", Label: "Worst Concave Points", Description: "Worst Concave Points", Range: "0.0-0.291"},
			{Key: "worst_symmetry", Label: "Worst Symmetry", Description: "Worst Symmetry", Range: "0.156-0.664"},
			{Key: "worst_fractal_dimension", Label: "Worst Fractal Dimension", Description: "Worst Fractal Dimension", Range: "0.055-0.208"},
		},
		Positive:     "The person is more likely to have Breast Cancer",
		Negative:     "The person is less likely to have Breast Cancer",
		ErrorContext: "breast cancer",
	}
}
