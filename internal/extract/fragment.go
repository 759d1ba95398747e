package extract

import "time"

// Fragment is the typed "known fields" half of an extraction, plus the
// verbatim passthrough of every raw key. Fields a payload did not carry
// stay at their zero value ("" / nil), which the consolidator treats as
// absent. Raw status/specialty strings are kept unnormalized here; the
// normalize package maps them onto the closed enums at merge time.
type Fragment struct {
	// Identity
	PatientID       string
	PatientIDNumber string
	LabPatientID    string
	BillID          string
	BillIDNumber    string
	ReportID        string
	TestIDs         []string

	// Demographics
	Name             string
	Age              *int
	Gender           string
	Phone            string
	Email            string
	AlternateContact string
	AlternateEmail   string
	Address          map[string]interface{}

	// Billing
	TotalAmount     *float64
	DueAmount       *float64
	AdvancePaid     *float64
	Concession      *float64
	PaymentStatus   string
	PaymentMode     string
	ReferralDoctor  string
	ReferralContact string
	ReferralAddress string

	// Workflow (raw upstream strings)
	Status       string
	CurrentStage string

	// Report content
	TestName       string
	TestCode       string
	TestCategory   string
	SigningDoctors []map[string]interface{}
	ReportBase64   string
	ReportValues   []map[string]interface{}
	Attachments    []map[string]interface{}

	// Doctor / lab
	DoctorName      string
	DoctorSpecialty string
	DoctorEmail     string
	DoctorPhone     string
	LabID           string
	LabName         string
	LabEmail        string
	LabPhone        string
	LabAddress      string
	LabCity         string
	LabState        string
	LabCountry      string

	// Dates
	RegistrationDate *time.Time
	LastVisitDate    *time.Time
	ReportDate       *time.Time
	SampleDate       *time.Time

	// All is the untouched payload, stored verbatim as audit metadata so no
	// information is lost even when a field has no typed home.
	All map[string]interface{}
}

// Candidate key lists, ordered by how often each spelling shows up in
// captured upstream traffic. Exact spellings go first.
var (
	patientIDKeys       = []string{"patientId", "Patient Id", "PatientID", "patient_id", "Patient ID"}
	patientIDNumberKeys = []string{"patientIdNumber", "Patient Id Number", "patientNumber"}
	labPatientIDKeys    = []string{"labPatientId", "Lab Patient Id", "labPatientID", "lab_patient_id"}
	billIDKeys          = []string{"billId", "Bill Id", "BillID", "bill_id", "billNumber", "Bill Number"}
	billIDNumberKeys    = []string{"billIdNumber", "Bill Id Number"}
	reportIDKeys        = []string{"reportId", "Report Id", "labReportId", "Lab Report Id", "CentreReportId", "report_id"}
	testIDKeys          = []string{"testID", "testId", "Test Id", "Test ID", "test_id", "dictionaryId"}

	nameKeys    = []string{"patientName", "Patient Name", "fullName", "Full Name", "name", "Name"}
	ageKeys     = []string{"age", "Age", "Patient Age", "patientAge", "Age (Years)"}
	genderKeys  = []string{"gender", "Gender", "sex", "Sex"}
	phoneKeys   = []string{"mobile", "Mobile", "Mobile Number", "phone", "Phone", "Contact No", "contactNumber"}
	emailKeys   = []string{"email", "Email", "Email Id", "emailId", "Patient Email"}
	altPhoneKeys = []string{"alternateContact", "Alternate Contact", "alternateMobile", "Alternate Number"}
	altEmailKeys = []string{"alternateEmail", "Alternate Email"}
	addressKeys  = []string{"address", "Address", "patientAddress", "Patient Address"}

	totalKeys         = []string{"totalAmount", "Total Amount", "total", "Total", "billAmount", "Gross Amount"}
	dueKeys           = []string{"dueAmount", "Due Amount", "due", "Due", "balanceAmount"}
	advanceKeys       = []string{"advancePaid", "Advance Paid", "advance", "Advance", "paidAmount"}
	concessionKeys    = []string{"concession", "Concession", "discount", "Discount"}
	paymentStatusKeys = []string{"paymentStatus", "Payment Status", "billStatus", "Bill Status"}
	paymentModeKeys   = []string{"paymentMode", "Payment Mode", "paymentType", "Payment Type"}
	refDoctorKeys     = []string{"referralDoctor", "Referral Doctor", "referredBy", "Referred By", "refDoctor"}
	refContactKeys    = []string{"referralContact", "Referral Contact", "referralDoctorContact"}
	refAddressKeys    = []string{"referralAddress", "Referral Address", "referralDoctorAddress"}

	statusKeys       = []string{"status", "Status", "reportStatus", "Report Status", "sampleStatus", "Sample Status"}
	currentStageKeys = []string{"currentStage", "Current Stage", "stage", "Stage"}

	testNameKeys     = []string{"testName", "Test Name", "dictionaryName", "Dictionary Name", "testDescription"}
	testCodeKeys     = []string{"testCode", "Test Code", "integrationCode", "Integration Code"}
	testCategoryKeys = []string{"testCategory", "Test Category", "department", "Department", "profileName"}
	signingKeys      = []string{"signingDoctor", "Signing Doctor", "signedBy", "Signed By", "approvingDoctor"}
	base64Keys       = []string{"reportBase64", "Report Base64", "base64", "reportPdf", "Report PDF", "pdfData"}
	reportValueKeys  = []string{"reportFormatAndValues", "Report Format And Values", "reportValues", "testValues"}
	attachmentKeys   = []string{"fileAttachments", "File Attachments", "attachments", "Attachments"}

	doctorNameKeys      = []string{"doctorName", "Doctor Name", "assignedDoctor", "Assigned Doctor", "consultingDoctor"}
	doctorSpecialtyKeys = []string{"doctorSpecialty", "Doctor Specialty", "specialty", "Specialty", "specialisation", "Specialization"}
	doctorEmailKeys     = []string{"doctorEmail", "Doctor Email"}
	doctorPhoneKeys     = []string{"doctorPhone", "Doctor Phone", "doctorContact", "Doctor Contact"}

	labIDKeys      = []string{"labId", "Lab Id", "centreId", "Centre Id", "orgCode", "Org Code"}
	labNameKeys    = []string{"labName", "Lab Name", "organisationName", "Organisation Name", "organizationName", "centreName"}
	labEmailKeys   = []string{"labEmail", "Lab Email", "organisationEmail"}
	labPhoneKeys   = []string{"labPhone", "Lab Phone", "organisationContact"}
	labAddressKeys = []string{"labAddress", "Lab Address", "organisationAddress", "Organisation Address"}
	labCityKeys    = []string{"labCity", "Lab City", "city", "City"}
	labStateKeys   = []string{"labState", "Lab State", "state", "State"}
	labCountryKeys = []string{"labCountry", "Lab Country", "country", "Country"}

	registrationDateKeys = []string{"registrationDate", "Registration Date", "billDate", "Bill Date", "Bill Time", "billTime"}
	lastVisitDateKeys    = []string{"lastVisitDate", "Last Visit Date", "visitDate", "Visit Date"}
	reportDateKeys       = []string{"reportDate", "Report Date", "approvalDate", "Approval Date", "signedAt"}
	sampleDateKeys       = []string{"sampleDate", "Sample Date", "collectionDate", "Collection Date", "accessionDate"}

	addressSubKeys = []string{"street", "city", "state", "zipCode", "country", "landmark", "areaOfResidence"}
)

// Extract produces the flat known-field view of a payload plus the full
// verbatim passthrough map. It is pure: callable per request with no shared
// state, and the same payload always yields the same fragment.
func Extract(payload Payload) Fragment {
	frag := Fragment{
		PatientID:       String(payload, patientIDKeys...),
		PatientIDNumber: String(payload, patientIDNumberKeys...),
		LabPatientID:    String(payload, labPatientIDKeys...),
		BillID:          String(payload, billIDKeys...),
		BillIDNumber:    String(payload, billIDNumberKeys...),
		ReportID:        String(payload, reportIDKeys...),
		TestIDs:         Strings(payload, testIDKeys...),

		Name:             String(payload, nameKeys...),
		Age:              Age(payload, ageKeys...),
		Gender:           String(payload, genderKeys...),
		Phone:            String(payload, phoneKeys...),
		Email:            String(payload, emailKeys...),
		AlternateContact: String(payload, altPhoneKeys...),
		AlternateEmail:   String(payload, altEmailKeys...),
		Address:          extractAddress(payload),

		TotalAmount:     Number(payload, totalKeys...),
		DueAmount:       Number(payload, dueKeys...),
		AdvancePaid:     Number(payload, advanceKeys...),
		Concession:      Number(payload, concessionKeys...),
		PaymentStatus:   String(payload, paymentStatusKeys...),
		PaymentMode:     String(payload, paymentModeKeys...),
		ReferralDoctor:  String(payload, refDoctorKeys...),
		ReferralContact: String(payload, refContactKeys...),
		ReferralAddress: String(payload, refAddressKeys...),

		Status:       String(payload, statusKeys...),
		CurrentStage: String(payload, currentStageKeys...),

		TestName:       String(payload, testNameKeys...),
		TestCode:       String(payload, testCodeKeys...),
		TestCategory:   String(payload, testCategoryKeys...),
		SigningDoctors: Objects(payload, signingKeys...),
		ReportBase64:   String(payload, base64Keys...),
		ReportValues:   Objects(payload, reportValueKeys...),
		Attachments:    Objects(payload, attachmentKeys...),

		DoctorName:      String(payload, doctorNameKeys...),
		DoctorSpecialty: String(payload, doctorSpecialtyKeys...),
		DoctorEmail:     String(payload, doctorEmailKeys...),
		DoctorPhone:     String(payload, doctorPhoneKeys...),
		LabID:           String(payload, labIDKeys...),
		LabName:         String(payload, labNameKeys...),
		LabEmail:        String(payload, labEmailKeys...),
		LabPhone:        String(payload, labPhoneKeys...),
		LabAddress:      String(payload, labAddressKeys...),
		LabCity:         String(payload, labCityKeys...),
		LabState:        String(payload, labStateKeys...),
		LabCountry:      String(payload, labCountryKeys...),

		RegistrationDate: Date(payload, registrationDateKeys...),
		LastVisitDate:    Date(payload, lastVisitDateKeys...),
		ReportDate:       Date(payload, reportDateKeys...),
		SampleDate:       Date(payload, sampleDateKeys...),

		All: payload,
	}
	if frag.ReferralDoctor != "" && frag.DoctorName == "" {
		frag.DoctorName = frag.ReferralDoctor
	}
	return frag
}

// extractAddress accepts either a nested address object or flat address
// fields spread across the payload, returning only the known sub-keys with
// present values.
func extractAddress(payload Payload) map[string]interface{} {
	source := Object(payload, addressKeys...)
	addr := make(map[string]interface{})
	for _, sub := range addressSubKeys {
		if source != nil {
			if v, ok := Lookup(source, sub); ok {
				addr[sub] = v
				continue
			}
		}
		if v, ok := Lookup(payload, sub); ok {
			addr[sub] = v
		}
	}
	// A flat string address lands on the street sub-key.
	if _, has := addr["street"]; !has {
		if v, ok := Lookup(payload, addressKeys...); ok {
			if s, isStr := v.(string); isStr {
				addr["street"] = s
			}
		}
	}
	if len(addr) == 0 {
		return nil
	}
	return addr
}
