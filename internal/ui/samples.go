package ui

// DefaultSamples are the clinical notes offered by the sample action
var DefaultSamples = []string{
	"Patient is a 58-year-old male with a history of type 2 diabetes and hypertension. " +
		"He reports chest pain radiating to the left arm and shortness of breath. " +
		"Current medications include metformin 500mg twice daily and lisinopril 10mg once daily. " +
		"An ECG and a complete blood count were ordered.",
	"The patient presented with fever, persistent cough and fatigue for five days. " +
		"Chest X-ray showed signs of pneumonia. She was started on amoxicillin 875mg every 12 hours " +
		"and advised to take acetaminophen as needed for headache.",
	"History of asthma and seasonal allergies. Complains of wheezing and nausea after exercise. " +
		"Spirometry was performed. Prescribed albuterol inhaler 2 puffs every 4 hours and " +
		"scheduled a follow-up MRI of the knee after reported joint pain.",
}
