package conversation

const (
	startCommand         = "/start"
	helpCommand          = "/help"
	createAccountCommand = "/create_account"
	loginCommand         = "/login"
	logoutCommand        = "/logout"
	chartReportCommand   = "/chart_report"
	pdfReportCommand     = "/pdf_report"
)

const (
	confirmWord = "confirm"
	cancelWord  = "cancel"
)

const (
	chartFileName = "chart.png"
	pdfFileName   = "report.pdf"
)

const (
	financialGreeting = "Hello! I am your financial assistant 💰\n" +
		"Use /create_account to sign up or /login if you already have an account."
	reportGreeting = "Hello! I am your reports assistant 📊\n" +
		"Use /create_account to sign up or /login if you already have an account."
	financialHelp = "Commands:\n" +
		"/start - start over\n" +
		"/create_account - create a new account\n" +
		"/login - log in\n" +
		"/logout - log out\n\n" +
		"Once logged in, send an expense like:\n" + expenseExample
	reportHelp = "Commands:\n" +
		"/start - start over\n" +
		"/create_account - create a new account\n" +
		"/login - log in\n" +
		"/logout - log out\n" +
		"/chart_report - pie chart of expenses by category\n" +
		"/pdf_report - PDF with all transactions"

	expenseExample = "spent 47 reais on uber via card Bank X"

	askNewEmailMessage       = "Enter the email for your new account:"
	askEmailMessage          = "Enter your email:"
	askNewPasswordMessage    = "Choose a password:"
	askPasswordMessage       = "Enter your password:"
	invalidEmailMessage      = "That does not look like an email, try again:"
	emptyPasswordMessage     = "The password cannot be empty, try again:"
	emailTakenMessage        = "This email already exists. Enter another one:"
	accountMissingMessage    = "This account does not exist. Use /create_account to sign up."
	wrongPasswordMessage     = "Wrong password. Use /login to try again."
	accountCreatedMessage    = "Account created! You are now logged in."
	loggedInMessage          = "You are logged in."
	loggedOutMessage         = "You are logged out. See you soon!"
	loginRequiredMessage     = "Please log in first with /login."
	unknownCommandMessage    = "I don't know this command. Use /help to see what I can do."
	askExpenseMessage        = "Tell me about your expense, e.g.:\n" + expenseExample
	expenseFormatMessage     = "I could not read that as an expense. Write it like:\n" + expenseExample
	expenseSavedMessage      = "Transaction recorded successfully!"
	expenseCanceledMessage   = "Transaction canceled."
	nonPositiveAmountMessage = "The amount must be greater than zero, change it with: amount: <value>"
	editFormatMessage        = "Reply confirm to save, cancel to drop it, or <field>: <value> to change a field."
	unknownFieldFormat       = "Unknown field %q. Fields are: %s."
	invalidValueFormat       = "Invalid value for %s: %s"
	draftHeader              = "Please check the transaction:"
	updatedDraftHeader       = "Updated transaction:"
	reportMenuMessage        = "Choose a report:\n" +
		"/chart_report - pie chart of expenses by category\n" +
		"/pdf_report - PDF with all transactions"
	noTransactionsMessage = "No transactions found."
)
